package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"git.sr.ht/~jakintosh/today/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task screen over HTTP",
		Long: `Serve the task screen as a web page.

Examples:
  today serve
  today serve --addr :9000 --seed=false
  today serve --store sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Addr = getConfigValue(addr, cfg.Addr)

			logger := newLogger(cfg, os.Stderr)
			st, err := newStore(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := web.NewServer(st, web.ServerOptions{Logger: logger})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", cfg.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env: TODAY_ADDR, default localhost:8080)")
	return cmd
}
