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

func newSpeakCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize speech from text",
		Long: `Synthesize the given text with the configured text-to-speech model
and write the result as an mp3 file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeak(strings.Join(args, " "), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output mp3 path (default: output_audio.mp3)")

	return cmd
}

func runSpeak(text, outputFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}

	sc, err := newCLIServerContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	path, err := sc.Voice().SpeakToFile(ctx, text, outputFile)
	if err != nil {
		return err
	}

	fmt.Printf("Audio written to %s\n", path)
	return nil
}
