package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecalloway/claude-chat/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "claude-chat",
	Short: "Persisted, cost-tracked conversations with Claude",
	Long: `claude-chat is a local chat client for Anthropic's Claude models.
Conversations are streamed live, stored as JSON files, and annotated with
per-exchange token usage and cost.

Run with no subcommand to start the interactive terminal shell.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRootConfig,
	RunE:              runChat,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
