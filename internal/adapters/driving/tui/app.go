package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

const inputHeight = 3

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the chat styles.
	styles *Styles

	// conversationID is the persisted conversation, "" until the first
	// exchange creates one.
	conversationID string

	// title is the conversation title shown in the header.
	title string

	// messages is the transcript displayed in the viewport.
	messages []domain.Message

	// viewport scrolls the transcript.
	viewport viewport.Model

	// input is the question box.
	input textarea.Model

	// spinner animates while a question is in flight.
	spinner spinner.Model

	// pending is true while waiting for an answer.
	pending bool

	// showSources toggles cited passage display.
	showSources bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first window size was received.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// conversationLoadedMsg carries a resumed conversation.
type conversationLoadedMsg struct {
	conversation *domain.Conversation
}

// answerMsg carries a completed exchange.
type answerMsg struct {
	conversationID string
	message        domain.Message
}

// errMsg carries a failed operation.
type errMsg struct {
	err error
}

// NewApp creates the chat application. A non-empty conversationID
// resumes that conversation.
func NewApp(ports *Ports, conversationID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textarea.New()
	input.Placeholder = "Votre question..."
	input.ShowLineNumbers = false
	input.SetHeight(1)
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         DefaultStyles(),
		conversationID: conversationID,
		title:          domain.PlaceholderTitle,
		input:          input,
		spinner:        sp,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if a.conversationID != "" {
		cmds = append(cmds, a.loadConversation())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.SetWidth(msg.Width - 4)
		vpHeight := msg.Height - inputHeight - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, vpHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = vpHeight
		}
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyCtrlN:
			a.resetConversation()
			return a, nil
		case tea.KeyCtrlS:
			a.showSources = !a.showSources
			a.refreshTranscript()
			return a, nil
		case tea.KeyEnter:
			return a, a.submit()
		}

	case conversationLoadedMsg:
		a.conversationID = msg.conversation.ID
		a.title = msg.conversation.Title
		a.messages = msg.conversation.Messages
		a.refreshTranscript()
		return a, nil

	case answerMsg:
		a.pending = false
		a.conversationID = msg.conversationID
		a.messages = append(a.messages, msg.message)
		a.refreshTranscript()
		return a, nil

	case errMsg:
		a.pending = false
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.pending {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Chargement..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Plaide · " + a.title))
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	if a.pending {
		b.WriteString(a.spinner.View() + " Recherche dans les documents...")
	} else if a.err != nil {
		b.WriteString(a.styles.Error.Render("Erreur: " + a.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Input.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("Entrée: envoyer · Ctrl+N: nouvelle conversation · Ctrl+S: sources · Esc: quitter"))
	return b.String()
}

// submit sends the current question if one is ready.
func (a *App) submit() tea.Cmd {
	question := strings.TrimSpace(a.input.Value())
	if question == "" || a.pending {
		return nil
	}

	// History is the transcript before this turn
	history := append([]domain.Message(nil), a.messages...)

	a.messages = append(a.messages, domain.Message{
		ID:      uuid.NewString(),
		Role:    domain.RoleUser,
		Content: question,
	})
	a.input.Reset()
	a.err = nil
	a.pending = true
	a.refreshTranscript()

	return tea.Batch(a.spinner.Tick, a.askTurn(question, history))
}

// askTurn runs one question through the pipeline and persists the
// exchange. It runs off the UI goroutine.
func (a *App) askTurn(question string, history []domain.Message) tea.Cmd {
	ctx := a.ctx
	ports := a.ports
	convID := a.conversationID

	return func() tea.Msg {
		if convID == "" {
			conv, err := ports.Conversation.Create(ctx)
			if err != nil {
				return errMsg{err}
			}
			convID = conv.ID
		}

		userMsg := domain.Message{ID: uuid.NewString(), Role: domain.RoleUser, Content: question}
		if err := ports.Conversation.Append(ctx, convID, userMsg); err != nil {
			return errMsg{err}
		}

		answer, err := ports.Ask.Ask(ctx, question, history)
		if err != nil {
			return errMsg{err}
		}

		assistantMsg := domain.Message{
			ID:      uuid.NewString(),
			Role:    domain.RoleAssistant,
			Content: answer.Text,
			Sources: answer.Sources,
		}
		if err := ports.Conversation.Append(ctx, convID, assistantMsg); err != nil {
			return errMsg{err}
		}

		return answerMsg{conversationID: convID, message: assistantMsg}
	}
}

// loadConversation resumes an existing conversation.
func (a *App) loadConversation() tea.Cmd {
	ctx := a.ctx
	ports := a.ports
	convID := a.conversationID

	return func() tea.Msg {
		conv, err := ports.Conversation.Get(ctx, convID)
		if err != nil {
			return errMsg{err}
		}
		return conversationLoadedMsg{conversation: conv}
	}
}

// resetConversation starts a fresh exchange.
func (a *App) resetConversation() {
	a.conversationID = ""
	a.title = domain.PlaceholderTitle
	a.messages = nil
	a.err = nil
	a.pending = false
	a.refreshTranscript()
}

// refreshTranscript re-renders the viewport content and scrolls to the
// latest message.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.messages) == 0 {
		return a.styles.Muted.Render("Posez une question sur vos documents.")
	}

	var b strings.Builder
	for i, msg := range a.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(a.styles.User.Render("Vous"))
		case domain.RoleAssistant:
			b.WriteString(a.styles.Assistant.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(msg.Content)

		if a.showSources && len(msg.Sources) > 0 {
			b.WriteString("\n")
			for _, src := range msg.Sources {
				line := fmt.Sprintf("  ⎸ %s (extrait %d)", src.Metadata.Source, src.Metadata.ChunkID)
				b.WriteString("\n" + a.styles.Source.Render(line))
			}
		}
	}
	return b.String()
}
