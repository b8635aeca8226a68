package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/demo"
	"github.com/tailored-agentic-units/statetree/record"
)

const (
	historyLimit       = 8
	defaultAuthTimeout = 10 * time.Second
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeLogin
)

// Options configure the model.
type Options struct {
	Context     context.Context
	App         *demo.App
	AuthTimeout time.Duration
}

// loginMsg carries an authentication result back to Update.
type loginMsg struct {
	profile record.Record
	err     error
}

// history records change descriptions. It is shared by model copies so the
// listener registered in New keeps appending to the one the program holds.
type history struct {
	lines []string
}

func (h *history) add(line string) {
	h.lines = append(h.lines, line)
	if len(h.lines) > historyLimit {
		h.lines = h.lines[len(h.lines)-historyLimit:]
	}
}

// Model is the Bubble Tea model over a demo.App.
type Model struct {
	ctx         context.Context
	app         *demo.App
	authTimeout time.Duration

	keys   keyMap
	styles styles
	input  textinput.Model
	mode   mode

	cursor  int
	status  string
	history *history
	width   int
}

// New builds a model and subscribes it to app.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.AuthTimeout
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}

	input := textinput.New()
	input.CharLimit = 120

	m := Model{
		ctx:         ctx,
		app:         opts.App,
		authTimeout: timeout,
		keys:        defaultKeyMap(),
		styles:      defaultStyles(),
		input:       input,
		history:     &history{},
	}

	h := m.history
	opts.App.OnStateChange(func(ch container.Change[demo.AppState]) {
		h.add(demo.Describe(ch))
	})

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loginMsg:
		ok, err := m.app.Session.FinishLogin(msg.profile, msg.err)
		switch {
		case err != nil:
			m.status = "login failed: " + err.Error()
		case !ok:
			m.status = "login discarded"
		default:
			m.status = "signed in as " + m.app.Session.User()
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	list := m.app.Todos.State().List

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Increment):
		m.app.Dispatch("counter.increment", nil)
	case key.Matches(msg, m.keys.Decrement):
		m.app.Dispatch("counter.decrement", nil)
	case key.Matches(msg, m.keys.Reset):
		m.app.Dispatch("counter.reset", nil)

	case key.Matches(msg, m.keys.Add):
		return m.startInput(modeAdd, "todo: ")
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(list) {
			m.app.Dispatch("todos.toggle", list[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.Remove):
		if m.cursor < len(list) {
			m.app.Dispatch("todos.remove", list[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.CompleteAll):
		m.app.Dispatch("todos.complete_all", nil)
	case key.Matches(msg, m.keys.ClearDone):
		m.app.Dispatch("todos.clear_done", nil)

	case key.Matches(msg, m.keys.Login):
		return m.startInput(modeLogin, "user: ")
	case key.Matches(msg, m.keys.Logout):
		if ok, _ := m.app.Session.Logout(); !ok {
			m.status = "not signed in"
		}
	}

	m.clampCursor()
	return m, nil
}

func (m Model) startInput(md mode, prompt string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.Prompt = prompt
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		md := m.mode
		m.mode = modeNormal
		m.input.Blur()

		if md == modeAdd {
			if m.app.Dispatch("todos.add", value) {
				m.cursor = len(m.app.Todos.State().List) - 1
			}
			return m, nil
		}
		return m.login(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) login(user string) (tea.Model, tea.Cmd) {
	ok, err := m.app.Session.BeginLogin()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if !ok {
		m.status = "already signed in"
		return m, nil
	}

	auth, err := m.app.Session.Authenticator()
	if err != nil {
		return m, func() tea.Msg { return loginMsg{err: err} }
	}

	ctx, timeout := m.ctx, m.authTimeout
	m.status = "signing in..."
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		profile, err := auth.Authenticate(ctx, user)
		return loginMsg{profile: profile, err: err}
	}
}

func (m *Model) clampCursor() {
	n := len(m.app.Todos.State().List)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.styles
	summary := m.app.Summary().State()

	var b strings.Builder
	b.WriteString(s.Title.Render("statetree demo"))
	b.WriteString("\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		s.Section.Render("Counter"),
		s.Accent.Render(fmt.Sprintf("%d", summary.Count)),
		"",
		s.Section.Render("Session"),
		m.sessionLine(),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		s.Section.Render(fmt.Sprintf("Todos %d/%d", summary.Total-summary.Open, summary.Total)),
		m.todoLines(),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.Panel.Render(left),
		s.Panel.Render(right),
		s.Panel.Render(m.historyLines()),
	))
	b.WriteString("\n")

	if m.mode != modeNormal {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(s.Muted.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) sessionLine() string {
	sess := m.app.Session
	switch {
	case sess.Is(demo.SignedIn):
		return m.styles.Accent.Render(sess.User())
	case sess.Is(demo.SigningIn):
		return m.styles.Muted.Render("signing in...")
	}
	if msg := sess.State().Error; msg != "" {
		return m.styles.Error.Render(msg)
	}
	return m.styles.Muted.Render("signed out")
}

func (m Model) todoLines() string {
	list := m.app.Todos.State().List
	if len(list) == 0 {
		return m.styles.Muted.Render("nothing to do")
	}

	lines := make([]string, len(list))
	for i, t := range list {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		text := t.Text
		if t.Done {
			text = m.styles.Done.Render(text)
		}
		lines[i] = cursor + text
	}
	return strings.Join(lines, "\n")
}

func (m Model) historyLines() string {
	lines := []string{m.styles.Section.Render("Recent")}
	if len(m.history.lines) == 0 {
		lines = append(lines, m.styles.Muted.Render("no changes"))
	}
	for _, l := range m.history.lines {
		lines = append(lines, m.styles.Muted.Render(l))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, m.styles.HelpKey.Render(h.Key)+" "+m.styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
