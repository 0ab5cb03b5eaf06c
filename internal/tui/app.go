package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toonkor/internal/domain"
	"github.com/mmcdole/toonkor/internal/service"
	"github.com/mmcdole/toonkor/internal/tui/components"
	"github.com/mmcdole/toonkor/internal/tui/styles"
)

// DefaultTitle is the terminal window title set when the program starts
const DefaultTitle = "Browse"

// statusDuration is how long transient status messages stay visible
const statusDuration = 4 * time.Second

// PageOpener opens a result page outside the terminal
type PageOpener interface {
	Open(url string) error
}

// Focus identifies which component receives key presses
type Focus int

const (
	FocusSearch Focus = iota
	FocusGrid
)

// Options configures the browse screen
type Options struct {
	Title     string              // window title, set once at start
	Debounce  time.Duration       // search bar quiet period
	CellWidth int                 // grid cell content width
	DetailURL func(string) string // maps a result id to its page URL
	Opener    PageOpener
	Logger    *slog.Logger
}

// Model is the Bubble Tea model for the browse screen.
// What is rendered depends only on the controller's SearchState.
type Model struct {
	Search *service.SearchController

	// UI Components
	SearchBar components.SearchBar
	Grid      components.ResultGrid
	Spinner   spinner.Model
	Focus     Focus

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusGen   int

	opts   Options
	logger *slog.Logger
}

// NewModel creates the browse screen model
func NewModel(search *service.SearchController, opts Options) Model {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bar := components.NewSearchBar(opts.Debounce)
	bar.Focus()

	return Model{
		Search:    search,
		SearchBar: bar,
		Grid:      components.NewResultGrid(opts.CellWidth),
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		Focus:  FocusSearch,
		opts:   opts,
		logger: logger,
	}
}

// Init sets the window title once and starts the input cursor
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(m.opts.Title),
		textinput.Blink,
	)
}

// State returns the current search state
func (m Model) State() domain.SearchState {
	return m.Search.State()
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case components.QueryChangedMsg:
		return m.handleQuery(msg.Query)

	case SearchSettledMsg:
		return m.handleSettled(msg.Settlement)

	case spinner.TickMsg:
		if m.Search.State().Phase != domain.PhaseLoading {
			return m, nil // let the tick chain stop
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PageOpenedMsg:
		return m.setStatus("Opened "+msg.URL, false)

	case ErrMsg:
		m.logger.Error("browse error", "context", msg.Context, "error", msg.Err)
		return m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		if msg.gen == m.statusGen {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Cursor blink and debounce timers belong to the search bar
	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	return m, cmd
}

// handleQuery starts a search for a debounced query
func (m Model) handleQuery(query string) (tea.Model, tea.Cmd) {
	wasLoading := m.Search.State().Phase == domain.PhaseLoading

	pending, ok := m.Search.OnQueryChange(query)
	if !ok {
		return m, nil
	}

	cmds := []tea.Cmd{SearchCmd(pending)}
	if !wasLoading {
		cmds = append(cmds, m.Spinner.Tick)
	}
	m.Grid.SetItems(nil, "")
	if m.Focus == FocusGrid {
		cmds = append(cmds, m.focusSearch())
	}
	return m, tea.Batch(cmds...)
}

// handleSettled applies a finished search
func (m Model) handleSettled(s service.Settlement) (tea.Model, tea.Cmd) {
	if !m.Search.Settle(s) {
		return m, nil
	}

	state := m.Search.State()
	if state.Phase == domain.PhaseSuccess {
		m.Grid.SetItems(state.Results, state.Query)
	} else {
		m.Grid.SetItems(nil, "")
	}
	m.updateLayout()
	return m, nil
}

// handleKeyMsg routes key presses by focus
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		m.Search.Close()
		return m, tea.Quit
	}

	if m.Focus == FocusGrid {
		if key.Matches(msg, Keys.Escape) || key.Matches(msg, Keys.ToggleFocus) {
			return m, m.focusSearch()
		}

		var open bool
		var cmd tea.Cmd
		m.Grid, cmd, open = m.Grid.Update(msg)
		if open {
			return m.openSelected()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Escape):
		m.Search.Close()
		return m, tea.Quit

	case key.Matches(msg, Keys.ToggleFocus), key.Matches(msg, Keys.ToGrid):
		if m.Grid.Len() > 0 {
			m.focusGrid()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	return m, cmd
}

// openSelected opens the selected result's page
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	item := m.Grid.Selected()
	if item == nil {
		return m, nil
	}
	id := item.GetID()
	if id == "" {
		return m.setStatus("This result has no page to open", true)
	}
	if m.opts.Opener == nil || m.opts.DetailURL == nil {
		return m.setStatus("Opening pages is not configured", true)
	}
	return m, OpenPageCmd(m.opts.Opener, m.opts.DetailURL(id))
}

func (m *Model) focusSearch() tea.Cmd {
	m.Focus = FocusSearch
	m.Grid.SetFocused(false)
	return m.SearchBar.Focus()
}

func (m *Model) focusGrid() {
	m.Focus = FocusGrid
	m.SearchBar.Blur()
	m.Grid.SetFocused(true)
}

// setStatus shows a transient status message
func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusGen++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(m.statusGen, statusDuration)
}
