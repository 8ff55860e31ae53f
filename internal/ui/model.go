package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecalloway/claude-chat/internal/chat"
)

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}).
			Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}).
				Bold(true)

	statusTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})

	errorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"})
)

// turnEvent is one item of a turn's event stream: a text fragment while
// streaming, then exactly one terminal result or error.
type turnEvent struct {
	fragment string
	result   *chat.TurnResult
	err      error
}

// Model is the Bubble Tea model for the chat view.
//
// The turn goroutine mutates the session's conversation while a turn is in
// flight, so the view never reads it directly. Everything rendered comes from
// the messages/modelName/totalCost snapshot below, which is only written on
// the update goroutine and re-synced at turn boundaries.
type Model struct {
	ctx     context.Context
	session *chat.Session

	messages  []chat.Message
	modelName string
	totalCost float64

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model
	renderer *markdownRenderer

	streaming  bool
	partial    strings.Builder
	events     chan turnEvent
	cancelTurn context.CancelFunc

	errText string
	width   int
	height  int
	ready   bool
}

func newModel(ctx context.Context, session *chat.Session) *Model {
	input := textarea.New()
	input.Placeholder = "Send a message (enter to send, ctrl+j for newline)..."
	input.CharLimit = 0
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		session:  session,
		input:    input,
		spin:     spin,
		renderer: newMarkdownRenderer(80),
	}
	m.syncFromSession()
	return m
}

// syncFromSession copies the conversation into the render snapshot. Must only
// be called while no turn goroutine is running; the terminal turn event is
// sent after SubmitTurn returns, so handling it orders this read after the
// engine's writes.
func (m *Model) syncFromSession() {
	conv := m.session.Conversation()
	m.messages = append([]chat.Message(nil), conv.Messages...)
	m.modelName = conv.Model
	m.totalCost = conv.TotalCost
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := m.input.Height() + 1
		viewportHeight := msg.Height - inputHeight - 2 // header + status lines
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.SetWidth(msg.Width)
		m.renderer = newMarkdownRenderer(msg.Width)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.streaming {
				// Cancel the in-flight turn; the engine rolls the user
				// message back and the turn surfaces as an error event.
				if m.cancelTurn != nil {
					m.cancelTurn()
				}
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if m.streaming {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.errText = ""
			return m, tea.Batch(m.startTurn(text), m.spin.Tick)
		case "ctrl+j":
			m.input.InsertString("\n")
			return m, nil
		}

	case turnEvent:
		return m.handleTurnEvent(msg)

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// startTurn launches the exchange in a goroutine and begins pumping its
// events into the update loop.
func (m *Model) startTurn(text string) tea.Cmd {
	events := make(chan turnEvent, 64)
	turnCtx, cancel := context.WithCancel(m.ctx)

	m.streaming = true
	m.partial.Reset()
	m.events = events
	m.cancelTurn = cancel

	// Mirror the engine's immediate user-message append in the snapshot; if
	// the turn fails, the terminal event's re-sync undoes it along with the
	// engine's rollback.
	m.messages = append(m.messages, chat.Message{Role: chat.RoleUser, Content: text})

	session := m.session
	go func() {
		defer close(events)
		result, err := session.SubmitTurn(turnCtx, text, func(fragment string) {
			events <- turnEvent{fragment: fragment}
		})
		if err != nil {
			events <- turnEvent{err: err}
			return
		}
		events <- turnEvent{result: &result}
	}()

	m.refreshViewport()
	return waitForTurnEvent(events)
}

func waitForTurnEvent(events <-chan turnEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

func (m *Model) handleTurnEvent(ev turnEvent) (tea.Model, tea.Cmd) {
	switch {
	case ev.err != nil:
		m.finishTurn()
		m.syncFromSession()
		m.errText = ev.err.Error()
		m.refreshViewport()
		return m, nil
	case ev.result != nil:
		m.finishTurn()
		m.syncFromSession()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	default:
		m.partial.WriteString(ev.fragment)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, waitForTurnEvent(m.events)
	}
}

func (m *Model) finishTurn() {
	m.streaming = false
	m.partial.Reset()
	if m.cancelTurn != nil {
		m.cancelTurn()
		m.cancelTurn = nil
	}
	m.events = nil
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
}

// renderConversation renders the full history; completed assistant messages
// go through the markdown renderer, in-flight text is shown raw.
func (m *Model) renderConversation() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		if msg.Role == chat.RoleUser {
			sb.WriteString(userLabelStyle.Render("You") + "\n")
			sb.WriteString(msg.Content + "\n\n")
		} else {
			sb.WriteString(assistantLabelStyle.Render("Claude") + "\n")
			sb.WriteString(m.renderer.render(msg.Content) + "\n")
		}
	}
	if m.streaming {
		sb.WriteString(assistantLabelStyle.Render("Claude") + "\n")
		sb.WriteString(m.partial.String())
	}
	return sb.String()
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerBarStyle.Render(fmt.Sprintf(" %s | total $%.4f ", m.modelName, m.totalCost))

	status := statusTextStyle.Render("enter send | ctrl+j newline | esc quit")
	if m.streaming {
		status = m.spin.View() + statusTextStyle.Render(" streaming... (esc to cancel)")
	}
	if m.errText != "" {
		status = errorTextStyle.Render("Error: " + m.errText)
	}

	return header + "\n" + m.viewport.View() + "\n" + m.input.View() + "\n" + status
}
