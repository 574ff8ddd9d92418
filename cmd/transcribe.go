package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
)

func newTranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audiofile>",
		Short: "Transcribe an audio file to text",
		Long: `Transcribe an audio file (mp3, wav, m4a, ...) to text using the
configured speech-to-text model and print the transcript.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(args[0])
		},
	}
}

func runTranscribe(path string) error {
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

	transcript, err := sc.Voice().TranscribeFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println(transcript)
	return nil
}
