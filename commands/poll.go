package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BeenaAbe/linkedin-agent-workflow/metrics"
)

func newPollCommand() *cobra.Command {
	var (
		metricsAddr string
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Watch the queue and process new ideas continuously",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if interval > 0 {
				cfg.Poll.IdleInterval = interval
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				server := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
				go func() {
					logger.Info("metrics listening", "addr", metricsAddr)
					if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						logger.Warn("metrics server stopped", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = server.Shutdown(shutdownCtx)
				}()
			}

			if err := a.runner.Poll(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "override the idle polling interval")
	return cmd
}
