// Package chat owns conversation state and drives streaming exchanges with
// the model service.
package chat

import (
	"time"
)

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation. Messages are immutable once
// appended; insertion order is conversation order.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the persisted record of one chat session.
//
// Model holds the human-readable display name of the model that produced the
// most recent assistant message, not the raw model identifier. Created is
// refreshed to the save time on every save, so it behaves as a last-modified
// stamp rather than a creation stamp.
type Conversation struct {
	ID        string    `json:"id"`
	Created   time.Time `json:"created"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	TotalCost float64   `json:"total_cost"`
}

// NewID derives a conversation id from a timestamp at one-second resolution.
// Two sessions started within the same clock second would collide and
// overwrite each other's stored file; in practice session creation is
// operator-driven and serialized, so this is documented rather than prevented.
func NewID(now time.Time) string {
	return now.Format("20060102_150405")
}

// NewConversation creates an empty conversation with a freshly generated id.
func NewConversation(modelName string) *Conversation {
	return &Conversation{
		ID:      NewID(time.Now()),
		Created: time.Now(),
		Model:   modelName,
	}
}

// FirstUserMessage returns the content of the first user message, or the
// empty string if the conversation has none. Callers truncate for display.
func (c *Conversation) FirstUserMessage() string {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}
