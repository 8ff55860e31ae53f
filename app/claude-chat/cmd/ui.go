package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ecalloway/claude-chat/internal/chat"
	"github.com/ecalloway/claude-chat/internal/ui"
)

var (
	uiModel  string
	uiResume string
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the full-screen chat interface",
	Long: `Starts the full-screen terminal interface: streamed replies rendered as
markdown, with running cost in the header.`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().StringVarP(&uiModel, "model", "m", "", "Model display name to chat with")
	uiCmd.Flags().StringVarP(&uiResume, "resume", "r", "", "Conversation id to resume")
	rootCmd.AddCommand(uiCmd)
}

func runUI(_ *cobra.Command, _ []string) error {
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

	model := uiModel
	if model == "" {
		model = cfg.DefaultModel
	}
	return ui.Run(ctx, cfg, st, streamer, uiResume, model)
}
