package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/secretary"
)

func newBriefingCmd() *cobra.Command {
	var (
		account   string
		hours     int
		maxEmails int
	)

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Print a morning briefing",
		Long: `Print a digest of your upcoming meetings, an LLM summary of unread
email and your open tasks.

Sections degrade independently: a missing Google authorization or LLM key
hides that section instead of failing the whole briefing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefing(account, hours, maxEmails)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account to act on (defaults to JARVIS_ACCOUNT)")
	cmd.Flags().IntVar(&hours, "hours", 24, "Calendar look-ahead window in hours")
	cmd.Flags().IntVar(&maxEmails, "max-emails", 5, "Maximum unread emails to feed the inbox summary")

	return cmd
}

func runBriefing(account string, hours, maxEmails int) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if account == "" {
		account = cfg.Google.Account
	}

	sc, err := newCLIServerContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	reply := sc.SecretaryForAccount(account).Briefing(ctx, secretary.BriefingOptions{
		Hours:     hours,
		MaxEmails: maxEmails,
	})

	fmt.Println(reply.Text)
	return nil
}
