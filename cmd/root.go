package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the jarvis application
var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "AI secretary for your calendar, inbox, projects and tasks",
	Long: `jarvis is a natural-language assistant that schedules meetings,
summarizes email, plans projects and manages tasks by calling
OpenAI-compatible and Google Workspace APIs.

It can run as:
  - An interactive chat assistant (default)
  - A one-shot command processor (ask)
  - An MCP (Model Context Protocol) server for AI assistants (serve)
  - A local dashboard API (web)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jarvis version %s\n" .Version}}`)

	// If no subcommand is provided, start the interactive chat by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newBriefingCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newSpeakCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWebCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
