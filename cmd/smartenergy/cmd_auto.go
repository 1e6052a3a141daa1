package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Inspect and change automatic temperature control",
	}
	cmd.AddCommand(
		newAutoConfigCmd(),
		newAutoSetCmd(),
		newAutoDecideCmd(),
		newAutoCheckCmd(),
		newAutoMonitorCmd(),
	)
	return cmd
}

func newAutoConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current automatic-control configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc := newSession()
			cfg, err := svc.AutoConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("monitor enabled: %v\n", cfg.MonitorEnabled)
			fmt.Printf("target temp:     %.1f C\n", cfg.TargetTempC)
			fmt.Printf("check interval:  %ds\n", cfg.IntervalSeconds)
			return nil
		},
	}
}

func newAutoSetCmd() *cobra.Command {
	var (
		enabled  bool
		target   float64
		interval int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the automatic-control configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{}
			if cmd.Flags().Changed("enabled") {
				payload["monitor_enabled"] = enabled
			}
			if cmd.Flags().Changed("target") {
				payload["target_temp_c"] = target
			}
			if cmd.Flags().Changed("interval") {
				payload["interval_seconds"] = interval
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update: pass --enabled, --target, or --interval")
			}

			_, svc := newSession()
			raw, err := svc.UpdateAutoConfig(cmd.Context(), payload)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "enable or disable automatic control")
	cmd.Flags().Float64Var(&target, "target", 0, "target temperature in Celsius")
	cmd.Flags().IntVar(&interval, "interval", 0, "monitor check interval in seconds")
	return cmd
}

func newAutoDecideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decide <temp>",
		Short: "Ask the server what it would do at the given temperature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			temp, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("not a temperature: %q", args[0])
			}
			_, svc := newSession()
			raw, err := svc.Decide(cmd.Context(), temp)
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
}

func newAutoCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one control check against the current temperature",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc := newSession()
			raw, err := svc.Check(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
}

func newAutoMonitorCmd() *cobra.Command {
	var interval int
	cmd := &cobra.Command{
		Use:   "monitor <start|stop|status>",
		Short: "Control the server-side monitoring loop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc := newSession()
			ctx := cmd.Context()

			var (
				raw []byte
				err error
			)
			switch args[0] {
			case "start":
				raw, err = svc.StartMonitor(ctx, interval)
			case "stop":
				raw, err = svc.StopMonitor(ctx)
			case "status":
				raw, err = svc.MonitorStatus(ctx)
			default:
				return fmt.Errorf("unknown monitor action %q", args[0])
			}
			if err != nil {
				return err
			}
			printJSON(raw)
			return nil
		},
	}
	cmd.Flags().IntVar(&interval, "interval", 0, "check interval in seconds (start only)")
	return cmd
}
