// Package cli implements the interactive terminal shell: a menu loop over
// stored conversations and a streaming chat loop with line editing and input
// history.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/ecalloway/claude-chat/internal/chat"
	"github.com/ecalloway/claude-chat/internal/config"
	"github.com/ecalloway/claude-chat/internal/store"
)

// maxListed caps how many conversations the load menu offers.
const maxListed = 20

// Shell is the terminal front end. It owns presentation and input parsing
// and calls into the session engine for everything else.
type Shell struct {
	cfg      config.Config
	store    *store.Store
	streamer chat.Streamer

	line        *liner.State
	historyFile string
}

// New creates a terminal shell with line editing and persistent input
// history.
func New(cfg config.Config, st *store.Store, streamer chat.Streamer) *Shell {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	sh := &Shell{
		cfg:      cfg,
		store:    st,
		streamer: streamer,
		line:     line,
	}

	if dir, err := config.ConfigDir(); err == nil {
		sh.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(sh.historyFile); err == nil {
			sh.line.ReadHistory(f)
			f.Close()
		}
	}

	return sh
}

// Close persists input history and releases the terminal.
func (sh *Shell) Close() {
	if sh.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(sh.historyFile), 0o755); err == nil {
			if f, err := os.OpenFile(sh.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				sh.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	sh.line.Close()
}

// Run drives the main menu until the user exits.
func (sh *Shell) Run(ctx context.Context) error {
	sh.printHeader()

	for {
		fmt.Println(headerStyle.Render("\nMenu:"))
		fmt.Println("  1. New conversation")
		fmt.Println("  2. Load conversation")
		fmt.Println("  3. List conversations")
		fmt.Println("  4. Exit")

		choice, err := sh.prompt("\nChoose option: ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := sh.newConversation(ctx); err != nil {
				return err
			}
		case "2":
			if err := sh.loadConversation(ctx); err != nil {
				return err
			}
		case "3":
			summaries, err := sh.store.List()
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Print(FormatList(summaries))
		case "4":
			fmt.Println(successStyle.Render("\nGoodbye!"))
			return nil
		default:
			fmt.Println(errorStyle.Render("Invalid choice. Please select 1-4."))
		}
	}
}

func (sh *Shell) printHeader() {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 60 {
		width = 60
	}
	rule := strings.Repeat("=", width)
	fmt.Println(headerStyle.Render(rule))
	fmt.Println(headerStyle.Render("         CLAUDE CHAT"))
	fmt.Println(headerStyle.Render(rule))
}

func (sh *Shell) newConversation(ctx context.Context) error {
	model, err := sh.selectModel()
	if err != nil {
		return nil
	}

	session := chat.NewSession(sh.streamer, sh.store, sh.cfg.MaxOutputTokens)
	session.StartNew(model.Name, model.ID)
	return sh.chatLoop(ctx, session)
}

func (sh *Shell) loadConversation(ctx context.Context) error {
	summaries, err := sh.store.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println(warningStyle.Render("\nNo saved conversations found."))
		return nil
	}
	if len(summaries) > maxListed {
		summaries = summaries[:maxListed]
	}

	fmt.Println(infoStyle.Render("\nSaved conversations:"))
	for i, s := range summaries {
		preview := store.TruncatePreview(s.Preview, terminalPreviewLen)
		if preview == "" {
			preview = "New conversation"
		}
		fmt.Printf("  %d. [%s] %s ($%.4f)\n", i+1, s.Created.Format("2006-01-02 15:04"), preview, s.TotalCost)
	}

	choice, err := sh.prompt(fmt.Sprintf("\nSelect conversation (1-%d): ", len(summaries)))
	if err != nil {
		return nil
	}
	idx, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || idx < 1 || idx > len(summaries) {
		fmt.Println(errorStyle.Render("Invalid selection."))
		return nil
	}

	conv, err := sh.store.Load(summaries[idx-1].ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(errorStyle.Render("No such conversation."))
			return nil
		}
		fmt.Println(errorStyle.Render("Failed to load conversation: " + err.Error()))
		return nil
	}

	model, ok := config.ModelByName(conv.Model)
	if !ok {
		model = config.DefaultModel()
	}

	session := chat.NewSession(sh.streamer, sh.store, sh.cfg.MaxOutputTokens)
	session.Hydrate(conv, model.ID)
	return sh.chatLoop(ctx, session)
}

func (sh *Shell) selectModel() (config.Model, error) {
	models := config.Models()
	fmt.Println(infoStyle.Render("\nAvailable models:"))
	for i, m := range models {
		fmt.Printf("  %d. %s\n", i+1, m.Name)
	}

	for {
		choice, err := sh.prompt(fmt.Sprintf("\nSelect model (1-%d) [default: 1]: ", len(models)))
		if err != nil {
			return config.Model{}, err
		}
		choice = strings.TrimSpace(choice)
		if choice == "" {
			return models[0], nil
		}
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(models) {
			return models[idx-1], nil
		}
		fmt.Println(errorStyle.Render(fmt.Sprintf("Invalid choice. Please select 1-%d.", len(models))))
	}
}

// chatLoop runs turns until the user exits, saves, or interrupts.
func (sh *Shell) chatLoop(ctx context.Context, session *chat.Session) error {
	conv := session.Conversation()
	fmt.Println(successStyle.Render("\nChat started with " + conv.Model))
	fmt.Println(warningStyle.Render("Commands: 'exit' to quit, 'save' to save and quit, 'clear' to clear screen, 'model' to switch models"))
	fmt.Println(warningStyle.Render("End your message with '###' on a new line"))

	for {
		fmt.Println(promptStyle.Render("\nYou:"))
		first, err := sh.prompt("")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		switch controlWord(first) {
		case "exit":
			if sh.confirm("Save before exiting? (y/n): ") {
				sh.saveConversation(session)
			}
			return nil
		case "save":
			sh.saveConversation(session)
			return nil
		case "clear":
			fmt.Print("\033[2J\033[H")
			continue
		case "model":
			model, err := sh.selectModel()
			if err != nil {
				continue
			}
			session.SetModel(model.Name, model.ID)
			fmt.Println(successStyle.Render("Switched to " + model.Name))
			continue
		}

		input, err := assembleInput(first, func() (string, error) {
			return sh.line.Prompt("")
		})
		if err != nil {
			continue
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		fmt.Println(assistantStyle.Render("\nClaude:"))

		// A SIGINT during streaming cancels the turn; the engine rolls the
		// in-flight user message back before returning.
		turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		result, err := session.SubmitTurn(turnCtx, input, func(text string) {
			fmt.Print(text)
		})
		stop()
		fmt.Println()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println(warningStyle.Render("\nInterrupted."))
				if sh.confirm("Save conversation? (y/n): ") {
					sh.saveConversation(session)
				}
				return nil
			}
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			continue
		}

		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"\nTokens: %d in / %d out | Cost: $%.4f | Total: $%.4f",
			result.InputTokens, result.OutputTokens, result.Cost, session.Conversation().TotalCost,
		)))
	}
}

func (sh *Shell) saveConversation(session *chat.Session) {
	if err := sh.store.Save(session.Conversation()); err != nil {
		fmt.Println(errorStyle.Render("Failed to save conversation: " + err.Error()))
		return
	}
	fmt.Println(successStyle.Render("Conversation saved!"))
}

func (sh *Shell) confirm(promptText string) bool {
	answer, err := sh.line.Prompt(warningStyle.Render(promptText))
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

func (sh *Shell) prompt(p string) (string, error) {
	s, err := sh.line.Prompt(p)
	if err == nil && strings.TrimSpace(s) != "" {
		sh.line.AppendHistory(s)
	}
	return s, err
}
