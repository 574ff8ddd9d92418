package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
)

func newAskCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "ask <command>",
		Short: "Run a single assistant command",
		Long: `Run one natural-language command through the assistant and print the
reply.

Examples:
  jarvis ask "schedule a meeting with marketing tomorrow at 2pm"
  jarvis ask "summarize my inbox"
  jarvis ask "plan website-relaunch = redesign and ship the marketing site"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(account, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account to act on (defaults to JARVIS_ACCOUNT)")

	return cmd
}

func runAsk(account, text string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	if account == "" {
		account = cfg.Google.Account
	}

	sc, err := newCLIServerContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	reply, err := sc.SecretaryForAccount(account).HandleCommand(ctx, text)
	if err != nil {
		return err
	}

	fmt.Println(reply.Text)
	return nil
}
