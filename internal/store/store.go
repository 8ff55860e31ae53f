// Package store persists conversations as JSON documents, one file per
// conversation id, in a single storage directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ecalloway/claude-chat/internal/chat"
)

// ErrNotFound is returned by Load when no record exists for the requested id,
// distinguishing "new conversation" from corrupt or unreadable storage.
// Check with errors.Is.
var ErrNotFound = errors.New("conversation not found")

// ErrCorrupt is returned by Load when a record exists but cannot be decoded.
var ErrCorrupt = errors.New("conversation record corrupt")

// Summary is a lightweight view of a stored conversation for list display.
// Preview is the untruncated first user message; callers truncate to their
// own display budget.
type Summary struct {
	ID        string
	Created   time.Time
	Model     string
	TotalCost float64
	Preview   string
}

// Store reads and writes conversation records under a single directory.
// Conversations are never concurrently written by this design (single
// operator, single process), so no cross-conversation locking is needed.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if absent.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the full conversation record, overwriting any previous record
// for the same id. The record's Created field is refreshed to the save time,
// so it reads as a last-modified stamp.
func (s *Store) Save(c *chat.Conversation) error {
	c.Created = time.Now()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := atomicWriteFile(s.filePath(c.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}
	return nil
}

// Load reads the conversation stored under id. Returns ErrNotFound when no
// record exists.
func (s *Store) Load(id string) (*chat.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read conversation file: %w", err)
	}

	var c chat.Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, id, err)
	}
	return &c, nil
}

// List returns summaries of all stored conversations, most recent first, ties
// broken by id descending for determinism. A record that fails to parse is
// logged and skipped; one bad file must not hide the rest.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")

		c, err := s.Load(id)
		if err != nil {
			log.Printf("Skipping unreadable conversation %s: %v", id, err)
			continue
		}

		summaries = append(summaries, Summary{
			ID:        c.ID,
			Created:   c.Created,
			Model:     c.Model,
			TotalCost: c.TotalCost,
			Preview:   c.FirstUserMessage(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Created.Equal(summaries[j].Created) {
			return summaries[i].Created.After(summaries[j].Created)
		}
		return summaries[i].ID > summaries[j].ID
	})

	return summaries, nil
}

func (s *Store) filePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// TruncatePreview shortens a preview to at most maxLen runes, flattening
// newlines and appending "..." when content was cut.
func TruncatePreview(preview string, maxLen int) string {
	preview = strings.ReplaceAll(preview, "\n", " ")
	preview = strings.ReplaceAll(preview, "\r", "")
	runes := []rune(preview)
	if len(runes) <= maxLen {
		return preview
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
