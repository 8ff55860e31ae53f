package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ecalloway/claude-chat/internal/chat"
	"github.com/ecalloway/claude-chat/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive terminal shell",
	Long: `Starts the menu-driven terminal shell: create a new conversation, resume a
stored one, or list everything saved so far. Within a chat, messages are
terminated with '###' on a line of its own; 'exit', 'save', and 'clear' are
recognized as the entirety of the first input line.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	provider, err := createTelemetryProvider(ctx)
	if err != nil {
		return err
	}
	defer provider.Shutdown(ctx)

	st, err := openStore()
	if err != nil {
		return err
	}

	streamer := chat.NewAnthropicStreamer(createAnthropicClient(cfg.AnthropicAPIKey))
	shell := cli.New(cfg, st, streamer)
	defer shell.Close()

	return shell.Run(ctx)
}
