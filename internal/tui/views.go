package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toonkor/internal/domain"
	"github.com/mmcdole/toonkor/internal/tui/styles"
)

// Body texts for the non-grid states
const (
	InitialText   = "Type a title to search Toonkor and Mangadex"
	LoadingText   = "Searching..."
	NoResultsText = "No results were found"
)

// Vertical chrome: title line + search bar (3 lines with border) + footer
const (
	headerHeight = 4
	footerHeight = 1
)

// updateLayout recalculates component dimensions
func (m *Model) updateLayout() {
	m.SearchBar.SetWidth(m.Width)
	m.Grid.SetSize(m.Width, m.bodyHeight())
}

func (m Model) bodyHeight() int {
	h := m.Height - headerHeight - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the browse screen
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(m.opts.Title),
		m.SearchBar.View(),
	)

	body := lipgloss.NewStyle().
		Width(m.Width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(m.renderBody(m.Search.State()))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// renderBody renders exactly one of the four state views
func (m Model) renderBody(state domain.SearchState) string {
	switch state.Phase {
	case domain.PhaseLoading:
		return m.centered(m.Spinner.View() + " " + styles.SubtitleStyle.Render(LoadingText))

	case domain.PhaseFailed:
		return m.centered(styles.ErrorStyle.Render(state.Message))

	case domain.PhaseSuccess:
		if state.NoResults() {
			return m.centered(styles.SubtitleStyle.Render(NoResultsText))
		}
		return m.Grid.View()

	default:
		return m.centered(styles.DimStyle.Render(InitialText))
	}
}

func (m Model) centered(content string) string {
	return lipgloss.Place(m.Width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

// renderFooter renders key hints, or the status message when one is set
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(m.StatusMsg, m.Width))
	}

	var hints []string
	if m.Focus == FocusGrid {
		hints = append(hints,
			hint("hjkl", "move"),
			hint("enter", "open"),
			hint("esc", "search"),
			hint("C-c", "quit"),
		)
	} else {
		if m.Grid.Len() > 0 {
			hints = append(hints, hint("tab", "results"))
		}
		hints = append(hints, hint("esc", "quit"))
	}

	return strings.Join(hints, styles.DimStyle.Render(" • "))
}

func hint(keys, desc string) string {
	return styles.HelpKeyStyle.Render(keys) + " " + styles.HelpDescStyle.Render(desc)
}
