package chat

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecalloway/claude-chat/internal/pricing"
)

var tracer = otel.Tracer("github.com/ecalloway/claude-chat/internal/chat")

// ErrTurnInFlight is returned when SubmitTurn is called while another turn is
// still in progress. Message ordering and cost accounting assume strict turn
// serialization, so overlapping turns are a caller error.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// StreamError wraps any failure of the streaming exchange: network errors,
// service errors, and malformed streams. When a SubmitTurn call returns a
// StreamError the rollback has already been applied.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("streaming exchange failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Usage is the terminal summary of one streaming exchange. Token counts are
// trusted from the service's response; no client-side counting is done.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Streamer opens one streaming request to the model service. Implementations
// invoke onFragment for each piece of assistant text as it arrives and return
// the final usage once the stream completes.
type Streamer interface {
	StreamTurn(ctx context.Context, modelID string, maxOutputTokens int64, messages []Message, onFragment func(text string)) (Usage, error)
}

// Saver persists a conversation record.
type Saver interface {
	Save(c *Conversation) error
}

// TurnResult describes one completed exchange.
type TurnResult struct {
	Reply        string
	InputTokens  int64
	OutputTokens int64
	Cost         float64
}

// Session owns an in-memory conversation and orchestrates turns against the
// model service: append user text, stream the reply, account cost, persist.
// A session is single-threaded; at most one turn may be in flight at a time.
type Session struct {
	conv    *Conversation
	modelID string

	streamer        Streamer
	saver           Saver
	maxOutputTokens int64

	inFlight atomic.Bool
}

// NewSession creates a session with no conversation. Call StartNew or Hydrate
// before submitting turns.
func NewSession(streamer Streamer, saver Saver, maxOutputTokens int64) *Session {
	return &Session{
		streamer:        streamer,
		saver:           saver,
		maxOutputTokens: maxOutputTokens,
	}
}

// StartNew begins a fresh, empty conversation with zero cost.
func (s *Session) StartNew(modelName, modelID string) {
	s.conv = NewConversation(modelName)
	s.modelID = modelID
}

// Hydrate replaces the session's state wholesale with a previously stored
// conversation.
func (s *Session) Hydrate(conv *Conversation, modelID string) {
	s.conv = conv
	s.modelID = modelID
}

// Conversation returns the session's current conversation. It is nil before
// StartNew or Hydrate.
func (s *Session) Conversation() *Conversation {
	return s.conv
}

// ModelID returns the raw identifier of the session's current model.
func (s *Session) ModelID() string {
	return s.modelID
}

// SetModel switches the model for subsequent turns. Prior messages and their
// recorded cost are unaffected.
func (s *Session) SetModel(modelName, modelID string) {
	s.conv.Model = modelName
	s.modelID = modelID
}

// SubmitTurn runs one exchange: the user message is appended immediately, the
// assistant reply is streamed through onFragment as it arrives, and on
// completion the assistant message is appended, the turn's cost added to the
// conversation total, and the conversation persisted.
//
// On any failure the just-appended user message is removed, restoring the
// state from before the call; no partial assistant text is kept or persisted.
func (s *Session) SubmitTurn(ctx context.Context, userText string, onFragment func(text string)) (TurnResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return TurnResult{}, ErrTurnInFlight
	}
	defer s.inFlight.Store(false)

	ctx, span := tracer.Start(ctx, "chat.SubmitTurn", trace.WithAttributes(
		attribute.String("conversation.id", s.conv.ID),
		attribute.String("turn.id", uuid.New().String()),
		attribute.String("model.id", s.modelID),
	))
	defer span.End()

	// The user message is appended before any network activity, then removed
	// again if the turn does not complete.
	undo := len(s.conv.Messages)
	s.conv.Messages = append(s.conv.Messages, Message{Role: RoleUser, Content: userText})

	var reply []byte
	usage, err := s.streamer.StreamTurn(ctx, s.modelID, s.maxOutputTokens, s.conv.Messages, func(text string) {
		reply = append(reply, text...)
		if onFragment != nil {
			onFragment(text)
		}
	})
	if err != nil {
		s.conv.Messages = s.conv.Messages[:undo]
		span.RecordError(err)
		return TurnResult{}, &StreamError{Err: err}
	}

	cost := pricing.TurnCost(usage.InputTokens, usage.OutputTokens, s.modelID)
	s.conv.Messages = append(s.conv.Messages, Message{Role: RoleAssistant, Content: string(reply)})
	s.conv.TotalCost += cost

	if err := s.saver.Save(s.conv); err != nil {
		// Persistence is part of the turn; a failed save rolls the whole turn
		// back so in-memory state never diverges from storage silently.
		s.conv.Messages = s.conv.Messages[:undo]
		s.conv.TotalCost -= cost
		span.RecordError(err)
		return TurnResult{}, fmt.Errorf("failed to persist conversation: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("tokens.input", usage.InputTokens),
		attribute.Int64("tokens.output", usage.OutputTokens),
		attribute.Float64("turn.cost", cost),
	)

	return TurnResult{
		Reply:        string(reply),
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		Cost:         cost,
	}, nil
}
