package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Show the device list and control devices interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _ := newSession()
			ctx := cmd.Context()

			sess.RenderDeviceList(ctx)
			if once {
				return nil
			}
			return deviceLoop(ctx, sess, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "print the list and exit")
	return cmd
}

// deviceLoop reads commands until quit or EOF.
func deviceLoop(ctx context.Context, sess deviceSession, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands: toggle <id> | delete <id> | refresh | usage | quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q", "exit":
			return nil
		case "refresh", "r":
			sess.RenderDeviceList(ctx)
		case "usage", "u":
			end := time.Now()
			start := end.AddDate(0, 0, -6)
			sess.RenderUsageDaily(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
		case "toggle", "t":
			id, err := argID(fields)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			sess.ToggleDevice(ctx, id)
		case "delete", "d":
			id, err := argID(fields)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			sess.DeleteDevice(id)
			sess.ResolveDelete(ctx)
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}

// deviceSession is the slice of the session the loop drives; the tests
// substitute a recording fake.
type deviceSession interface {
	RenderDeviceList(ctx context.Context)
	RenderUsageDaily(ctx context.Context, startDate, endDate string)
	ToggleDevice(ctx context.Context, id int)
	DeleteDevice(id int)
	ResolveDelete(ctx context.Context)
}

func argID(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s <id>", fields[0])
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("not a device id: %q", fields[1])
	}
	return id, nil
}
