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
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/logger"
	platformotel "github.com/phorde/freefleet/internal/platform/otel"
	"github.com/phorde/freefleet/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()
		defer func() { _ = log.Sync() }()

		shutdownTracer, err := platformotel.InitTracer("freefleet", log, os.Stdout)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()

		service, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer service.CancelAll()

		srv := server.New(cfg, log, service)
		httpServer := &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: srv.Handler(),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("http server listening", zap.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Info("shutting down", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
