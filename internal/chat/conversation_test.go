package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIDUsesSecondResolution(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 987654321, time.UTC)
	assert.Equal(t, "20250314_092653", NewID(at))
}

func TestNewConversationStartsEmpty(t *testing.T) {
	c := NewConversation("Claude Sonnet 4.5")

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Claude Sonnet 4.5", c.Model)
	assert.Empty(t, c.Messages)
	assert.Zero(t, c.TotalCost)
}

func TestFirstUserMessage(t *testing.T) {
	c := &Conversation{Messages: []Message{
		{Role: RoleAssistant, Content: "greeting"},
		{Role: RoleUser, Content: "the actual question"},
		{Role: RoleUser, Content: "a follow-up"},
	}}
	assert.Equal(t, "the actual question", c.FirstUserMessage())

	empty := &Conversation{}
	assert.Equal(t, "", empty.FirstUserMessage())
}
