package components

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toonkor/internal/tui/styles"
)

// SearchPlaceholder is shown while the search bar is empty
const SearchPlaceholder = "Search, Enter Toonkor or Mangadex URL"

// QueryChangedMsg carries the search text once typing has paused
type QueryChangedMsg struct {
	Query string
}

// debounceMsg fires when a quiet period ends; stale generations are ignored
type debounceMsg struct {
	gen   int
	value string
}

// SearchBar is a text input that reports its value after a quiet period
type SearchBar struct {
	input textinput.Model
	delay time.Duration
	gen   int    // bumped on every value change
	value string // value as of the last change
	width int
}

// NewSearchBar creates a search bar that waits delay after the last edit
// before emitting QueryChangedMsg. A non-positive delay emits on every edit.
func NewSearchBar(delay time.Duration) SearchBar {
	ti := textinput.New()
	ti.Placeholder = SearchPlaceholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{
		input: ti,
		delay: delay,
	}
}

// Focus focuses the input
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes focus from the input
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Value returns the current text
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetWidth updates the component width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	// border (2) + padding (2) + prompt
	inputWidth := width - 4 - lipgloss.Width(s.input.Prompt) - 1
	if inputWidth < 10 {
		inputWidth = 10
	}
	s.input.Width = inputWidth
}

// Update handles messages
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if msg, ok := msg.(debounceMsg); ok {
		if msg.gen != s.gen {
			return s, nil
		}
		return s, emitQuery(msg.value)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if current := s.input.Value(); current != s.value {
		s.value = current
		s.gen++
		return s, tea.Batch(cmd, s.debounce(current))
	}
	return s, cmd
}

// debounce schedules the quiet-period check for the current generation
func (s SearchBar) debounce(value string) tea.Cmd {
	if s.delay <= 0 {
		return emitQuery(value)
	}
	gen := s.gen
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen, value: value}
	})
}

func emitQuery(value string) tea.Cmd {
	return func() tea.Msg {
		return QueryChangedMsg{Query: value}
	}
}

// View renders the component
func (s SearchBar) View() string {
	style := styles.SearchBarStyle
	if s.input.Focused() {
		style = styles.SearchBarFocusedStyle
	}
	if s.width > 2 {
		style = style.Width(s.width - 2)
	}
	return style.Render(s.input.View())
}
