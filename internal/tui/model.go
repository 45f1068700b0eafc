package tui

import (
	"context"
	"time"

	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/Iron-Ham/moyu/internal/tui/keymap"
	"github.com/Iron-Ham/moyu/internal/tui/msg"
	"github.com/Iron-Ham/moyu/internal/tui/styles"
	"github.com/Iron-Ham/moyu/internal/tui/view"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// defaultWidth is used until the first WindowSizeMsg arrives when the
// terminal width is unknown.
const defaultWidth = 80

// ModelConfig configures a Model.
type ModelConfig struct {
	Board        *dashboard.Board
	Refresher    msg.Refresher
	Formatter    *locale.Formatter
	Interval     time.Duration
	ContentEvery int
	ShowHelp     bool
	Width        int // initial terminal width; 0 means unknown
}

// Model is the Bubbletea model of the dashboard. It never writes slots
// itself; refreshes run as commands and the view re-reads the board when
// they report back.
type Model struct {
	ctx          context.Context
	board        *dashboard.Board
	refresher    msg.Refresher
	view         *view.DashboardView
	keys         keymap.Keymap
	help         help.Model
	interval     time.Duration
	contentEvery int

	// State
	tick     int
	snapshot dashboard.Snapshot
	width    int
	height   int
	showHelp bool
	err      error
	quitting bool
}

// NewModel creates a Model. ctx bounds every refresh the model starts.
func NewModel(ctx context.Context, cfg ModelConfig) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = dashboard.DefaultInterval
	}
	if cfg.ContentEvery < 1 {
		cfg.ContentEvery = 1
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}

	h := help.New()
	h.Width = cfg.Width

	m := Model{
		ctx:          ctx,
		board:        cfg.Board,
		refresher:    cfg.Refresher,
		view:         view.NewDashboardView(cfg.Formatter),
		keys:         keymap.Default(),
		help:         h,
		interval:     cfg.Interval,
		contentEvery: cfg.ContentEvery,
		snapshot:     cfg.Board.Snapshot(),
		width:        cfg.Width,
		showHelp:     cfg.ShowHelp,
	}
	m.restyleHelp()
	return m
}

// Init refreshes every slot and starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		msg.Refresh(m.ctx, m.refresher, true),
		msg.Tick(m.interval),
	)
}

// Update handles messages and returns the updated model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.help.Width = message.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(message)

	case msg.TickMsg:
		m.tick++
		full := m.tick%m.contentEvery == 0
		return m, tea.Batch(
			msg.Tick(m.interval),
			msg.Refresh(m.ctx, m.refresher, full),
		)

	case msg.RefreshedMsg, msg.SlotUpdatedMsg:
		m.snapshot = m.board.Snapshot()
		return m, nil

	case msg.ConfigReloadedMsg:
		styles.SetActiveTheme(styles.ThemeName(message.Theme))
		m.restyleHelp()
		m.showHelp = message.ShowHelp
		m.err = nil
		return m, nil

	case msg.ErrMsg:
		m.err = message.Err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeypress(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(k, m.keys.Refresh):
		return m, msg.Refresh(m.ctx, m.refresher, true)

	case key.Matches(k, m.keys.Theme):
		styles.SetActiveTheme(styles.NextTheme(styles.ActiveTheme()))
		m.restyleHelp()
		return m, nil

	case key.Matches(k, m.keys.Help):
		m.showHelp = true
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// restyleHelp copies the active theme into the help component, which
// keeps its own style values.
func (m *Model) restyleHelp() {
	m.help.Styles.ShortKey = styles.HelpKey
	m.help.Styles.ShortDesc = styles.HelpDesc
	m.help.Styles.FullKey = styles.HelpKey
	m.help.Styles.FullDesc = styles.HelpDesc
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.view.Render(m.snapshot, m.width)}
	if m.err != nil {
		sections = append(sections, styles.Error.Render("error: "+m.err.Error()))
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
