package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/state"
)

// Focus names the area receiving key presses.
type Focus int

const (
	SearchFocus Focus = iota
	SelectionFocus
	CodeFocus
)

// Options configures a [Model].
type Options struct {
	Searcher  services.Searcher
	History   repositories.Recorder // optional
	Logger    *log.Logger
	AdminCode string
	ExportDir string
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	state     *state.State
	inflight  state.Inflight
	searcher  services.Searcher
	history   repositories.Recorder
	logger    *log.Logger
	exportDir string

	query  textinput.Model
	code   textinput.Model
	focus  Focus
	cursor int // highlighted suggestion
	picked int // highlighted listed track

	width  int
	height int
	status string
	failed bool
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	query := textinput.New()
	query.Placeholder = "Search for a song"
	query.Prompt = "♪ "
	query.Focus()

	code := textinput.New()
	code.Placeholder = "Admin code"
	code.Prompt = "# "
	code.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:       ctx,
		state:     state.New(opts.AdminCode),
		searcher:  opts.Searcher,
		history:   opts.History,
		logger:    opts.Logger,
		exportDir: opts.ExportDir,
		query:     query,
		code:      code,
		focus:     SearchFocus,
		width:     defaultWidth,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the cursor blinking in the search field.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.query.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case Msg:
		switch msg.kind {
		case MsgSearchResolved:
			res := msg.data.(state.Result)
			if !m.state.Apply(res) {
				m.logger.Debug("stale search response dropped", "query", res.Request.Query, "seq", res.Request.Seq)
				return m, nil
			}
			m.cursor = clamp(m.cursor, len(m.state.Suggestions()))
			return m, nil

		case MsgExportDone:
			res := msg.data.(exportResult)
			if res.err != nil {
				m.setStatus(fmt.Sprintf("Could not save playlist: %v", res.err), true)
				return m, nil
			}
			m.setStatus("Saved "+res.path, false)
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

// View renders the search field, suggestions, listed music, and admin panel.
func (m *Model) View() string {
	snap := m.state.Snapshot()
	width := max(m.width-4, 10)

	var b strings.Builder
	b.WriteString(styles.title.Render("Setlist"))
	b.WriteString("\n")
	b.WriteString(m.query.View())
	b.WriteString("\n")

	switch {
	case snap.Loading:
		b.WriteString(styles.help.Render("  searching..."))
		b.WriteString("\n")
	case snap.Query != "" && len(snap.Suggestions) == 0:
		b.WriteString(styles.help.Render("  no results"))
		b.WriteString("\n")
	}
	for i, t := range snap.Suggestions {
		b.WriteString(marked(suggestionRow(t, width), m.focus == SearchFocus && i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.ok.Render(fmt.Sprintf("Listed music (%d)", len(snap.Selection))))
	b.WriteString("\n")
	if len(snap.Selection) == 0 {
		b.WriteString(styles.help.Render("  nothing listed yet"))
		b.WriteString("\n")
	}
	for i, t := range snap.Selection {
		b.WriteString(marked(selectionRow(i+1, t, width), m.focus == SelectionFocus && i == m.picked))
		b.WriteString("\n")
	}

	if snap.SidebarOpen {
		b.WriteString("\n")
		b.WriteString(m.renderAdminPanel(snap))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(styles.err.Render(m.status))
		} else {
			b.WriteString(styles.ok.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.helpKeys(snap)))
	return b.String()
}

func (m *Model) renderAdminPanel(snap state.Snapshot) string {
	lock := styles.warn.Render("locked")
	if snap.IsAdmin {
		lock = styles.ok.Render("unlocked")
	}
	return styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		"Admin "+lock,
		m.code.View(),
	))
}

func (m *Model) helpKeys(snap state.Snapshot) []key.Binding {
	keys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.admin}
	if snap.IsAdmin {
		keys = append(keys, m.keys.delete, m.keys.save)
	}
	return append(keys, m.keys.clear, m.keys.quit)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.inflight.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, m.keys.admin):
		m.state.ToggleSidebar()
		if m.state.Snapshot().SidebarOpen {
			m.setFocus(CodeFocus)
		} else if m.focus == CodeFocus {
			m.setFocus(SearchFocus)
		}
		return m, nil

	case key.Matches(msg, m.keys.save):
		return m, m.export(formatter.FormatJSON)

	case key.Matches(msg, m.keys.delete):
		if m.focus == SelectionFocus {
			m.deletePicked()
		}
		return m, nil

	case key.Matches(msg, m.keys.clear):
		if m.focus == SearchFocus {
			m.query.SetValue("")
			return m, m.search("")
		}
		m.setFocus(SearchFocus)
		return m, nil

	case key.Matches(msg, m.keys.up):
		m.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.down):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if m.focus == SearchFocus {
			m.selectHighlighted()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused text field and reacts to value changes.
func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case SearchFocus:
		before := m.query.Value()
		m.query, cmd = m.query.Update(msg)
		if v := m.query.Value(); v != before {
			return m, tea.Batch(cmd, m.search(v))
		}
	case CodeFocus:
		before := m.code.Value()
		m.code, cmd = m.code.Update(msg)
		if v := m.code.Value(); v != before {
			m.state.SetCode(v)
		}
	}

	return m, cmd
}

// search issues a request for q, cancelling the one in flight, and returns the command that runs it.
func (m *Model) search(q string) tea.Cmd {
	req := m.state.SetQuery(q)
	m.cursor = 0
	if req.Skip {
		m.inflight.Stop()
		return nil
	}

	ctx := m.inflight.Start(m.ctx)
	searcher, logger := m.searcher, m.logger
	return func() tea.Msg {
		return searchResolvedMsg(state.Run(ctx, searcher, req, logger))
	}
}

func (m *Model) selectHighlighted() {
	if err := m.state.SelectAt(m.cursor); err != nil {
		m.logger.Debug("nothing to add", "cursor", m.cursor, "error", err)
		return
	}
	m.inflight.Stop()
	m.query.SetValue("")
	m.cursor = 0
	m.status = ""
}

func (m *Model) deletePicked() {
	if err := m.state.Delete(m.picked); err != nil {
		m.logger.Debug("delete ignored", "index", m.picked, "error", err)
		return
	}
	m.picked = clamp(m.picked, len(m.state.Selection()))
}

// export encodes the listed music and returns the command that writes it.
//
// Without the admin code nothing happens.
func (m *Model) export(f formatter.Format) tea.Cmd {
	data, err := m.state.Export(f)
	if err != nil {
		m.logger.Debug("export refused", "error", err)
		return nil
	}

	dir, history, logger := m.exportDir, m.history, m.logger
	count := len(m.state.Selection())
	return func() tea.Msg {
		path, err := formatter.WriteFile(dir, f, data)
		if err != nil {
			logger.Error("export failed", "format", f, "error", err)
			return exportDoneMsg("", err)
		}
		logger.Info("playlist exported", "path", path, "tracks", count)
		if history != nil {
			if _, err := history.Record(string(f), path, count); err != nil {
				logger.Warn("failed to record export", "error", err)
			}
		}
		return exportDoneMsg(path, nil)
	}
}

func (m *Model) move(delta int) {
	switch m.focus {
	case SearchFocus:
		m.cursor = clamp(m.cursor+delta, len(m.state.Suggestions()))
	case SelectionFocus:
		m.picked = clamp(m.picked+delta, len(m.state.Selection()))
	}
}

// cycleFocus moves search → listed music → admin code (when the panel is open) → search.
func (m *Model) cycleFocus() {
	switch m.focus {
	case SearchFocus:
		m.setFocus(SelectionFocus)
	case SelectionFocus:
		if m.state.Snapshot().SidebarOpen {
			m.setFocus(CodeFocus)
		} else {
			m.setFocus(SearchFocus)
		}
	default:
		m.setFocus(SearchFocus)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.query.Blur()
	m.code.Blur()
	switch f {
	case SearchFocus:
		m.query.Focus()
	case CodeFocus:
		m.code.Focus()
	case SelectionFocus:
		m.picked = clamp(m.picked, len(m.state.Selection()))
	}
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// clamp keeps i within [0, n); zero when n is zero.
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Focused reports the area currently receiving key presses.
func (m *Model) Focused() Focus { return m.focus }

// Snapshot exposes the underlying state for callers that render or inspect it.
func (m *Model) Snapshot() state.Snapshot { return m.state.Snapshot() }
