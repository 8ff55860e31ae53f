package chat

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicStreamer implements Streamer against the Anthropic Messages API.
type AnthropicStreamer struct {
	client anthropic.Client
}

func NewAnthropicStreamer(client anthropic.Client) AnthropicStreamer {
	return AnthropicStreamer{client: client}
}

// StreamTurn sends the full ordered message history and streams back the
// assistant reply, forwarding each text delta to onFragment as it is
// produced. The accumulated message supplies the final usage counts.
func (as AnthropicStreamer) StreamTurn(
	ctx context.Context,
	modelID string,
	maxOutputTokens int64,
	messages []Message,
	onFragment func(text string),
) (Usage, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: maxOutputTokens,
		Messages:  toMessageParams(messages),
	}

	stream := as.client.Messages.NewStreaming(ctx, params)
	response := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := response.Accumulate(event); err != nil {
			return Usage{}, fmt.Errorf("failed to accumulate response content stream: %w", err)
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if onFragment != nil {
					onFragment(deltaVariant.Text)
				}
			}
		}
	}
	if stream.Err() != nil {
		return Usage{}, fmt.Errorf("failed to stream response: %w", stream.Err())
	}
	if response.StopReason == "" {
		return Usage{}, fmt.Errorf("malformed response: missing stop reason")
	}

	return Usage{
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

func toMessageParams(messages []Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(block))
		} else {
			params = append(params, anthropic.NewUserMessage(block))
		}
	}
	return params
}
