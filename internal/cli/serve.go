package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gpt-interface/gpt-interface-go/internal/config"
	"github.com/gpt-interface/gpt-interface-go/internal/observability"
	"github.com/gpt-interface/gpt-interface-go/internal/server"
)

func newServeCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TelemetryURL != "" {
		tp, err := observability.Setup(ctx, cfg.TelemetryURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Warn("tracer shutdown", "error", err)
			}
		}()
	}

	rt, err := newRouter(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, rt)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
