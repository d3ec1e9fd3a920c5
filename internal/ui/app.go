package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/albumsync/internal/album"
	"github.com/five82/albumsync/internal/prefs"
	"github.com/five82/albumsync/internal/refresh"
	"github.com/five82/albumsync/internal/state"
)

// Controller starts refreshes. *refresh.Controller implements it.
type Controller interface {
	Refresh(ctx context.Context) error
	RefreshCacheFirst(ctx context.Context) error
	ShowOwners(ctx context.Context, ownerIDs []int) error
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Controller Controller
	ThemeName  string
	Owners     []int // last owner selection, prefilled in the owners prompt
	PrefsPath  string
	Source     string // base URL shown in the header
	Logger     *slog.Logger
}

type promptMode int

const (
	promptNone promptMode = iota
	promptOwners
	promptSearch
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	controller Controller
	prefsPath  string
	source     string
	logger     *slog.Logger
	keys       keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	now      time.Time

	// Data state
	snapshot state.Snapshot
	owners   []int
	query    string
	notice   string

	// Widgets
	table   table.Model
	spinner spinner.Model
	input   textinput.Model
	prompt  promptMode
}

type (
	tickMsg       time.Time
	snapshotMsg   state.Snapshot
	eventMsg      state.Event
	actionDoneMsg struct {
		op  string
		err error
	}
)

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		ctx:        ctx,
		store:      opts.Store,
		controller: opts.Controller,
		prefsPath:  prefsPath,
		source:     opts.Source,
		logger:     logger.With("component", "ui"),
		keys:       DefaultKeyMap(),
		theme:      GetTheme(themeName),
		owners:     append([]int(nil), opts.Owners...),
		now:        time.Now(),
		table: table.New(
			table.WithColumns(albumColumns(0)),
			table.WithFocused(true),
		),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:   input,
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(DefaultUIInterval),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTable()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd(DefaultUIInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.setSnapshot(state.Snapshot(msg))
		return m, nil

	case eventMsg:
		m.setSnapshot(msg.Snapshot)
		return m, nil

	case actionDoneMsg:
		m.notice = actionNotice(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.runCmd("refresh", m.controllerFunc(func(c Controller) func(context.Context) error {
			return c.Refresh
		}))

	case key.Matches(msg, m.keys.CacheFirst):
		return m, m.runCmd("cache_first", m.controllerFunc(func(c Controller) func(context.Context) error {
			return c.RefreshCacheFirst
		}))

	case key.Matches(msg, m.keys.Owners):
		cmd := m.openPrompt(promptOwners, formatOwners(m.owners))
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		cmd := m.openPrompt(promptSearch, m.query)
		return m, cmd

	case key.Matches(msg, m.keys.ClearSearch), key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.query = ""
			m.updateRows()
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom,
		m.keys.HalfPageUp, m.keys.HalfPageDown):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handlePromptKey routes keys to the active text prompt.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		mode := m.prompt
		m.closePrompt()
		if mode == promptSearch {
			m.query = strings.TrimSpace(value)
			m.updateRows()
			return m, nil
		}
		return m.confirmOwners(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// confirmOwners shows the cached albums of the entered owners. An empty
// entry clears the selection and shows the whole cache again.
func (m Model) confirmOwners(value string) (tea.Model, tea.Cmd) {
	ids, err := parseOwners(value)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.owners = ids
	m.savePrefs()
	m.logger.Debug("owners selected", "owners", ids)

	if len(ids) == 0 {
		return m, m.runCmd("cache_first", m.controllerFunc(func(c Controller) func(context.Context) error {
			return c.RefreshCacheFirst
		}))
	}
	return m, m.runCmd("owners", m.controllerFunc(func(c Controller) func(context.Context) error {
		return func(ctx context.Context) error { return c.ShowOwners(ctx, ids) }
	}))
}

func (m *Model) openPrompt(mode promptMode, value string) tea.Cmd {
	m.prompt = mode
	m.notice = ""
	switch mode {
	case promptOwners:
		m.input.Prompt = "owners> "
		m.input.Placeholder = "1 2 3"
	case promptSearch:
		m.input.Prompt = "/"
		m.input.Placeholder = "title"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.table.Blur()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
	m.table.Focus()
}

// controllerFunc picks a controller method, or nil when no controller is set.
func (m Model) controllerFunc(pick func(Controller) func(context.Context) error) func(context.Context) error {
	if m.controller == nil {
		return nil
	}
	return pick(m.controller)
}

// runCmd runs fn off the event loop and reports its error as actionDoneMsg.
func (m Model) runCmd(op string, fn func(context.Context) error) tea.Cmd {
	if fn == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	}
}

func actionNotice(msg actionDoneMsg) string {
	switch {
	case msg.err == nil, errors.Is(msg.err, context.Canceled):
		return ""
	case errors.Is(msg.err, refresh.ErrInFlight):
		return "A refresh is already running."
	default:
		return fmt.Sprintf("%s failed: %v", strings.ReplaceAll(msg.op, "_", " "), msg.err)
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Owners: m.owners}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.updateRows()
}

// visibleAlbums returns the albums matching the title filter.
func (m Model) visibleAlbums() []album.Album {
	return album.Filter(m.snapshot.Albums, m.query)
}

func (m *Model) updateRows() {
	albums := m.visibleAlbums()
	rows := make([]table.Row, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, table.Row{
			strconv.Itoa(a.ID),
			strconv.Itoa(a.UserID),
			a.Title,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
	if m.table.Cursor() < 0 && len(rows) > 0 {
		m.table.GotoTop()
	}
}

// Header, command bar and status line take one row each.
const chromeRows = 3

func (m *Model) resizeTable() {
	m.table.SetColumns(albumColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(m.height-chromeRows, 3))
	m.input.Width = maxInt(m.width-12, 10)
	m.updateRows()
}

func albumColumns(width int) []table.Column {
	const idWidth, ownerWidth = 6, 7
	// Each cell carries one column of padding on both sides.
	title := maxInt(width-idWidth-ownerWidth-6, 20)
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Owner", Width: ownerWidth},
		{Title: "Title", Width: title},
	}
}

func (m *Model) applyTheme() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(false)
	m.table.SetStyles(s)

	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	m.input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	m.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
}

// parseOwners reads owner ids separated by spaces or commas.
func parseOwners(value string) ([]int, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	var ids []int
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid owner id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatOwners(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, " ")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled. State changes are forwarded to the program as they
// are published.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Store != nil {
		unsubscribe := opts.Store.Subscribe(func(ev state.Event) {
			p.Send(eventMsg(ev))
		})
		defer unsubscribe()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
