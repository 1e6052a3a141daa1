package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"smartenergy/internal/client"
	"smartenergy/internal/logger"
	"smartenergy/internal/service"
	"smartenergy/internal/session"
	"smartenergy/internal/ui"
)

const defaultServerURL = "http://localhost:8080"

var (
	flagServer   string
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:   "smartenergy",
		Short: "Terminal client for the smart-energy home service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagServer, "server", "", "server base URL (overrides config)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newDevicesCmd(),
		newUsageCmd(),
		newAutoCmd(),
		newAddDeviceCmd(),
		newAddUsageCmd(),
		newSimCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads configs/config.yml when present; all settings have
// defaults, so a missing file is fine.
func loadConfig() error {
	viper.SetDefault("server.base_url", defaultServerURL)
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("sim.port", "8080")

	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func getLogger() *logger.Logger {
	level := viper.GetString("log.level")
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	return logger.Get(level)
}

func serverBaseURL() string {
	if flagServer != "" {
		return flagServer
	}
	return viper.GetString("server.base_url")
}

// newSession wires transport, services, renderer, and a confirmation surface
// appropriate for the terminal: the rich modal when stdout is a TTY, the
// blocking prompt otherwise.
func newSession() (*session.Session, *service.Service) {
	log := getLogger()
	svc := service.NewService(client.New(serverBaseURL()), log)

	var confirm session.ConfirmationSurface
	if isatty.IsTerminal(os.Stdout.Fd()) {
		confirm = ui.NewHuhConfirm()
	} else {
		confirm = ui.NewStdinConfirm(os.Stdin, os.Stdout)
	}

	return session.New(svc, ui.NewTermRenderer(os.Stdout), confirm, log), svc
}

// printJSON pretty-prints an opaque server response.
func printJSON(raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(buf.String())
}
