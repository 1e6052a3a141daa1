package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"smartenergy/internal/logger"
	"smartenergy/internal/simulator"
)

func newSimCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the in-memory home simulator server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = viper.GetString("sim.port")
			}
			return runSimulator(port, getLogger())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default from config)")
	return cmd
}

func runSimulator(port string, log *logger.Logger) error {
	store := simulator.NewStore()
	handler := simulator.NewHandler(store, log)

	srv := &simulator.Server{}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("simulator listening", "port", port)
		errCh <- srv.Run(port, handler.InitRoutes())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-quit:
	}

	log.Infow("shutting down simulator...")
	store.StopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
