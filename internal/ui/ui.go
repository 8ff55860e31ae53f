// Package ui implements the graphical shell: a full-screen Bubble Tea chat
// view with live streamed assistant text, markdown rendering, and a cost
// header. Like the terminal shell it is a thin adapter over the session
// engine.
package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ecalloway/claude-chat/internal/chat"
	"github.com/ecalloway/claude-chat/internal/config"
	"github.com/ecalloway/claude-chat/internal/store"
)

// Run starts the graphical shell. With resumeID set it hydrates that stored
// conversation; otherwise it starts a new conversation on modelName (falling
// back to the configured default for unknown names).
func Run(ctx context.Context, cfg config.Config, st *store.Store, streamer chat.Streamer, resumeID, modelName string) error {
	session := chat.NewSession(streamer, st, cfg.MaxOutputTokens)

	if resumeID != "" {
		conv, err := st.Load(resumeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no such conversation: %s", resumeID)
			}
			return err
		}
		model, ok := config.ModelByName(conv.Model)
		if !ok {
			model = config.DefaultModel()
		}
		session.Hydrate(conv, model.ID)
	} else {
		model, ok := config.ModelByName(modelName)
		if !ok {
			model = config.DefaultModel()
		}
		session.StartNew(model.Name, model.ID)
	}

	m := newModel(ctx, session)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
