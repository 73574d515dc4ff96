package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/monitor"
)

// shutdownTimeout bounds graceful shutdown after SIGINT or SIGTERM.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (MCP at /mcp, REST under /api)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(api.Services{
		System:   a.system,
		Registry: a.registry,
		Reports:  a.reports,
		MCP:      a.mcp,
	}, a.cfg, a.log)

	// A report makes four sequential registry calls, so the write timeout
	// leaves room for four client timeouts.
	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 4*a.cfg.CompaniesHouse.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if a.probe != nil {
		scheduler := monitor.NewScheduler(a.log)
		if err := scheduler.AddJob(a.cfg.Probe.Schedule, a.probe); err != nil {
			return fmt.Errorf("invalid probe schedule %q: %w", a.cfg.Probe.Schedule, err)
		}
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
		g.Go(func() error {
			// The outcome is recorded by the probe for the health endpoint.
			_ = scheduler.RunNow(a.probe)
			return nil
		})
	} else {
		a.log.Info().Msg("Upstream probe disabled")
	}

	if err := g.Wait(); err != nil {
		return err
	}

	a.log.Info().Msg("Server exited")
	return nil
}
