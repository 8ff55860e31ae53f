package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecalloway/claude-chat/internal/chat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "conversations"))
	require.NoError(t, err)
	return s
}

// writeRecord writes a record directly, bypassing Save's created-stamp
// refresh, so listing order can be controlled.
func writeRecord(t *testing.T, s *Store, c *chat.Conversation) {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), c.ID+".json"), data, 0o644))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	c := &chat.Conversation{
		ID:    "20250314_092653",
		Model: "Claude Opus 4",
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "first\nwith a newline"},
			{Role: chat.RoleAssistant, Content: "reply one"},
			{Role: chat.RoleUser, Content: "second"},
			{Role: chat.RoleAssistant, Content: "reply two"},
		},
		TotalCost: 0.0875,
	}
	require.NoError(t, s.Save(c))

	loaded, err := s.Load(c.ID)
	require.NoError(t, err)

	assert.Equal(t, c.ID, loaded.ID)
	assert.Equal(t, c.Model, loaded.Model)
	assert.Equal(t, c.Messages, loaded.Messages)
	assert.Equal(t, c.TotalCost, loaded.TotalCost)
	// Created is a last-modified stamp, refreshed on save.
	assert.WithinDuration(t, time.Now(), loaded.Created, 10*time.Second)
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	s := newTestStore(t)

	c := &chat.Conversation{ID: "20250314_092653", Model: "Claude Sonnet 4.5"}
	require.NoError(t, s.Save(c))

	c.Messages = append(c.Messages, chat.Message{Role: chat.RoleUser, Content: "added later"})
	c.TotalCost = 0.01
	require.NoError(t, s.Save(c))

	loaded, err := s.Load(c.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)
	assert.Equal(t, 0.01, loaded.TotalCost)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingRecordReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("20990101_000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptRecordReturnsCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o644))

	_, err := s.Load("bad")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	s := newTestStore(t)

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	writeRecord(t, s, &chat.Conversation{ID: "a", Created: t1, Model: "Claude Sonnet 4.5"})
	writeRecord(t, s, &chat.Conversation{ID: "b", Created: t2, Model: "Claude Sonnet 4.5"})
	writeRecord(t, s, &chat.Conversation{ID: "c", Created: t3, Model: "Claude Sonnet 4.5"})

	summaries, err := s.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "c", summaries[0].ID)
	assert.Equal(t, "b", summaries[1].ID)
	assert.Equal(t, "a", summaries[2].ID)
}

func TestListBreaksCreatedTiesByIDDescending(t *testing.T) {
	s := newTestStore(t)

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	writeRecord(t, s, &chat.Conversation{ID: "20250101_100000", Created: at})
	writeRecord(t, s, &chat.Conversation{ID: "20250101_100001", Created: at})

	summaries, err := s.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "20250101_100001", summaries[0].ID)
	assert.Equal(t, "20250101_100000", summaries[1].ID)
}

func TestListSkipsCorruptRecords(t *testing.T) {
	s := newTestStore(t)

	writeRecord(t, s, &chat.Conversation{ID: "good-1", Created: time.Now()})
	writeRecord(t, s, &chat.Conversation{ID: "good-2", Created: time.Now().Add(time.Second)})
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o644))

	summaries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestListPreviewIsUntruncatedFirstUserMessage(t *testing.T) {
	s := newTestStore(t)

	long := "a question considerably longer than any shell's display budget, left untouched by the store"
	writeRecord(t, s, &chat.Conversation{
		ID:      "with-preview",
		Created: time.Now(),
		Messages: []chat.Message{
			{Role: chat.RoleAssistant, Content: "not this"},
			{Role: chat.RoleUser, Content: long},
		},
	})

	summaries, err := s.List()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, long, summaries[0].Preview)
}

func TestListEmptyDirectory(t *testing.T) {
	s := newTestStore(t)

	summaries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "short", TruncatePreview("short", 60))
	assert.Equal(t, "line one line two", TruncatePreview("line one\nline two", 60))
	assert.Equal(t, "exactly ten", TruncatePreview("exactly ten", 11))
	assert.Equal(t, "a longer...", TruncatePreview("a longer preview string", 11))
	assert.Equal(t, "abc", TruncatePreview("abcdef", 3))
	// Rune-safe truncation
	assert.Equal(t, "héllo wö...", TruncatePreview("héllo wörld, ça va?", 11))
}
