package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/web"
)

func newWebCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the local dashboard/API server",
		Long: `Start the local dashboard/API server. It exposes the task store, project
plans and team roster as JSON, accepts assistant commands over HTTP, and
transcribes browser-recorded audio into commands with spoken replies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", web.DefaultAddr, "Server listen address")

	return cmd
}

func runWeb(addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sc, err := newCLIServerContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	srv := web.New(sc, addr)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := srv.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverDone:
		return err
	}
}
