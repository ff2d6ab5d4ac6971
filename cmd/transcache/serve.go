package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/transcache/logging"
	"github.com/ZaguanLabs/transcache/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}

	cmd.Flags().String("listen", "", "listen address (default :8000)")
	_ = c.v.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, c.stdout)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}

	app, err := server.NewApp(server.AppOptions{
		Logger:      logger,
		Coordinator: newCoordinator(p, store, cfg, logger),
	})
	if err != nil {
		return err
	}

	fields := logging.BaseFields("serve", c.configPath)
	fields["listen"] = cfg.Listen
	fields["cache_backend"] = cfg.Cache.Backend
	fields["provider"] = cfg.Provider.Type
	logger.WithFields(fields).Info("starting transcache server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Listen, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.WithFields(logging.BaseFields("shutdown", c.configPath)).Info("shutting down")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
