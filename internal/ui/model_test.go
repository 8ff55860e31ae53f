package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecalloway/claude-chat/internal/chat"
)

type fakeStreamer struct {
	fragments []string
	usage     chat.Usage
	err       error

	// When set, StreamTurn blocks until the gate closes, keeping the turn
	// goroutine alive while the test drives the view.
	gate chan struct{}
}

func (f *fakeStreamer) StreamTurn(ctx context.Context, modelID string, maxOutputTokens int64, messages []chat.Message, onFragment func(string)) (chat.Usage, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return chat.Usage{}, f.err
	}
	for _, fr := range f.fragments {
		onFragment(fr)
	}
	return f.usage, nil
}

type fakeSaver struct {
	err error
}

func (f *fakeSaver) Save(c *chat.Conversation) error {
	return f.err
}

func newTestModel(t *testing.T, streamer chat.Streamer) *Model {
	t.Helper()
	session := chat.NewSession(streamer, &fakeSaver{}, 8000)
	session.StartNew("Claude Sonnet 4.5", "claude-sonnet-4-5-20250929")
	return newModel(context.Background(), session)
}

// pumpTurn drains the turn's event stream through Update the way the Bubble
// Tea runtime would, one command at a time.
func pumpTurn(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, next := m.Update(msg)
		cmd = next
	}
}

func TestTurnUpdatesSnapshotOnCompletion(t *testing.T) {
	streamer := &fakeStreamer{
		fragments: []string{"Hello", ", world"},
		usage:     chat.Usage{InputTokens: 1000, OutputTokens: 2000},
	}
	m := newTestModel(t, streamer)

	pumpTurn(t, m, m.startTurn("hi there"))

	assert.False(t, m.streaming)
	require.Len(t, m.messages, 2)
	assert.Equal(t, chat.RoleUser, m.messages[0].Role)
	assert.Equal(t, "hi there", m.messages[0].Content)
	assert.Equal(t, chat.RoleAssistant, m.messages[1].Role)
	assert.Equal(t, "Hello, world", m.messages[1].Content)
	assert.InDelta(t, 0.033, m.totalCost, 1e-9)
}

func TestViewDoesNotReadSessionWhileTurnInFlight(t *testing.T) {
	streamer := &fakeStreamer{
		fragments: []string{"reply"},
		usage:     chat.Usage{InputTokens: 10, OutputTokens: 10},
		gate:      make(chan struct{}),
	}
	m := newTestModel(t, streamer)

	cmd := m.startTurn("still streaming")

	// The turn goroutine is parked inside the streamer and owns the session;
	// rendering now must see the snapshot, user message included.
	assert.True(t, m.streaming)
	rendered := m.renderConversation()
	assert.Contains(t, rendered, "still streaming")

	close(streamer.gate)
	pumpTurn(t, m, cmd)
	assert.Len(t, m.messages, 2)
}

func TestFailedTurnRollsSnapshotBack(t *testing.T) {
	streamer := &fakeStreamer{err: errors.New("boom")}
	m := newTestModel(t, streamer)

	pumpTurn(t, m, m.startTurn("doomed"))

	assert.False(t, m.streaming)
	assert.Empty(t, m.messages)
	assert.Zero(t, m.totalCost)
	assert.Contains(t, m.errText, "boom")
}
