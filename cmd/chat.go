package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

// newCLIServerContext builds the shared server context for CLI commands.
// Logs go to stderr so command output on stdout stays clean.
func newCLIServerContext(ctx context.Context, cfg *config.Config) (*server.ServerContext, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	sc, err := server.NewServerContext(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}

func newChatCmd() *cobra.Command {
	var (
		account string
		speak   bool
		model   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive assistant session",
		Long: `Start an interactive session with the assistant. Each line you type
is interpreted as a natural-language command: schedule or cancel meetings,
summarize or send email, plan projects, list tasks, or just chat.

Type "quit" or "exit" to leave the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(account, model, speak)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Google account to act on (defaults to JARVIS_ACCOUNT)")
	cmd.Flags().BoolVar(&speak, "speak", false, "Synthesize each reply to an mp3 file in the current directory")
	cmd.Flags().StringVar(&model, "model", "", "Override the configured chat model")

	return cmd
}

func runChat(account, model string, speak bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	if model != "" {
		cfg.OpenAI.Model = model
	}
	if account == "" {
		account = cfg.Google.Account
	}

	sc, err := newCLIServerContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	sec := sc.SecretaryForAccount(account)

	fmt.Println("Commands:")
	fmt.Println("  <message>                    => talk to the assistant")
	fmt.Println("  plan <name> = <objective>    => create a new project plan")
	fmt.Println("  tasks                        => list your open tasks")
	fmt.Println("  quit                         => exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Println("Exiting chat...")
			return nil
		}

		reply, err := sec.HandleCommand(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(reply.Text)

		if speak && reply.Spoken {
			path, err := sc.Voice().SpeakToFile(ctx, reply.Text, "")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to synthesize reply: %v\n", err)
				continue
			}
			fmt.Printf("(reply audio written to %s)\n", path)
		}
	}
	return scanner.Err()
}
