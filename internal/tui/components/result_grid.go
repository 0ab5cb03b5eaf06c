package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/toonkor/internal/domain"
	"github.com/mmcdole/toonkor/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid cells
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Title, source badge, thumbnail reference
	CellContentLines = 3

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	DefaultCellWidth = 28
	MinCellWidth     = 12
)

// ResultGrid renders search results as a grid of cards.
// It never renders emptiness messaging; an empty grid renders nothing.
type ResultGrid struct {
	items []domain.Manhwa
	query string // used only to highlight matched title characters

	cursor    int
	rowOffset int // first visible row

	width     int
	height    int
	cellWidth int // content width inside a cell
	focused   bool
}

// NewResultGrid creates a new result grid
func NewResultGrid(cellWidth int) ResultGrid {
	if cellWidth < MinCellWidth {
		cellWidth = DefaultCellWidth
	}
	return ResultGrid{cellWidth: cellWidth}
}

// SetItems replaces the results, keeping their order
func (g *ResultGrid) SetItems(items []domain.Manhwa, query string) {
	g.items = items
	g.query = query
	g.cursor = 0
	g.rowOffset = 0
}

// Len returns the number of results
func (g ResultGrid) Len() int {
	return len(g.items)
}

// SetSize updates the component dimensions
func (g *ResultGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetFocused sets the focus state
func (g *ResultGrid) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the current cursor position
func (g ResultGrid) Cursor() int {
	return g.cursor
}

// Selected returns the selected result, or nil if there are none
func (g ResultGrid) Selected() *domain.Manhwa {
	if len(g.items) == 0 || g.cursor >= len(g.items) {
		return nil
	}
	return &g.items[g.cursor]
}

// Columns returns how many cells fit in one row
func (g ResultGrid) Columns() int {
	cols := g.width / g.cellOuterWidth()
	if cols < 1 {
		return 1
	}
	return cols
}

// visibleRows returns how many rows of cells fit in the height
func (g ResultGrid) visibleRows() int {
	rows := (g.height - ScrollIndicatorLines) / g.cellOuterHeight()
	if rows < 1 {
		return 1
	}
	return rows
}

func (g ResultGrid) cellOuterWidth() int {
	return g.cellWidth + HorizontalPadding + BorderWidth
}

func (g ResultGrid) cellOuterHeight() int {
	return CellContentLines + BorderHeight
}

// totalRows returns the number of rows needed for all items
func (g ResultGrid) totalRows() int {
	cols := g.Columns()
	return (len(g.items) + cols - 1) / cols
}

// SetCursor moves the cursor, clamped to the results
func (g *ResultGrid) SetCursor(pos int) {
	last := len(g.items) - 1
	if last < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > last {
		pos = last
	}
	g.cursor = pos
	g.ensureVisible()
}

// MoveCursor moves by dx cells and dy rows; moves off the grid are ignored
func (g *ResultGrid) MoveCursor(dx, dy int) {
	if len(g.items) == 0 {
		return
	}
	cols := g.Columns()
	col := g.cursor%cols + dx
	if col < 0 || col >= cols {
		return
	}
	next := g.cursor + dx + dy*cols
	if next < 0 || next >= len(g.items) {
		return
	}
	g.cursor = next
	g.ensureVisible()
}

// ensureVisible scrolls so the cursor row is on screen
func (g *ResultGrid) ensureVisible() {
	row := g.cursor / g.Columns()
	rows := g.visibleRows()
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+rows {
		g.rowOffset = row - rows + 1
	}
}

// Update handles key messages. The bool result reports an open request
// for the selected result.
func (g ResultGrid) Update(msg tea.Msg) (ResultGrid, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !g.focused {
		return g, nil, false
	}

	switch {
	case key.Matches(keyMsg, GridKeys.Up):
		g.MoveCursor(0, -1)
	case key.Matches(keyMsg, GridKeys.Down):
		g.MoveCursor(0, 1)
	case key.Matches(keyMsg, GridKeys.Left):
		g.MoveCursor(-1, 0)
	case key.Matches(keyMsg, GridKeys.Right):
		g.MoveCursor(1, 0)
	case key.Matches(keyMsg, GridKeys.Home):
		g.SetCursor(0)
	case key.Matches(keyMsg, GridKeys.End):
		g.SetCursor(len(g.items) - 1)
	case key.Matches(keyMsg, GridKeys.Open):
		return g, nil, g.Selected() != nil
	}
	return g, nil, false
}

// View renders the component
func (g ResultGrid) View() string {
	if len(g.items) == 0 {
		return ""
	}

	cols := g.Columns()
	rows := g.visibleRows()
	total := g.totalRows()

	var b strings.Builder

	if g.rowOffset > 0 {
		b.WriteString(styles.DimStyle.Render("↑ more"))
	}
	b.WriteString("\n")

	end := g.rowOffset + rows
	if end > total {
		end = total
	}

	rendered := make([]string, 0, end-g.rowOffset)
	for row := g.rowOffset; row < end; row++ {
		cells := make([]string, 0, cols)
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(g.items) {
				break
			}
			cells = append(cells, g.renderCell(g.items[idx], idx == g.cursor && g.focused))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rendered...))
	b.WriteString("\n")

	if end < total {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("↓ %d more", len(g.items)-end*cols)))
	}

	return b.String()
}

// renderCell renders a single result card
func (g ResultGrid) renderCell(item domain.Manhwa, selected bool) string {
	title := styles.Truncate(item.GetTitle(), g.cellWidth)
	titleLine := highlightMatches(title, g.query, selected)

	badgeLine := renderSourceBadge(item.Source())

	thumb := item.Thumbnail
	if thumb == "" {
		thumb = "no thumbnail"
	}
	thumbLine := styles.DimStyle.Render(styles.Truncate(thumb, g.cellWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, badgeLine, thumbLine)

	style := styles.GridCellStyle
	if selected {
		style = styles.GridCellSelectedStyle
	}
	return style.Width(g.cellWidth + HorizontalPadding).Render(content)
}

// renderSourceBadge renders the source site label
func renderSourceBadge(source string) string {
	switch source {
	case domain.SourceToonkor:
		return styles.ToonkorBadgeStyle.Render("TOONKOR")
	case domain.SourceMangadex:
		return styles.MangadexBadgeStyle.Render("MANGADEX")
	case "":
		return styles.DimBadgeStyle.Render("?")
	default:
		return styles.DimBadgeStyle.Render(strings.ToUpper(source))
	}
}

// matchedIndexes returns the byte offsets in title matched by query
func matchedIndexes(title, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" || title == "" {
		return nil
	}
	lower := strings.ToLower(title)
	if len(lower) != len(title) {
		// Case folding changed byte offsets; skip highlighting
		return nil
	}
	matches := fuzzy.Find(strings.ToLower(query), []string{lower})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// highlightMatches renders title with the characters matched by query emphasized
func highlightMatches(title, query string, selected bool) string {
	normal := styles.SubtitleStyle
	if selected {
		normal = styles.TitleStyle
	}

	indexes := matchedIndexes(title, query)
	if len(indexes) == 0 {
		return normal.Render(title)
	}

	matchSet := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matchSet[idx] = true
	}

	// Batch consecutive characters with the same match state
	var result, batch strings.Builder
	batchMatch := false
	flush := func() {
		if batch.Len() == 0 {
			return
		}
		if batchMatch {
			result.WriteString(styles.MatchHighlightStyle.Render(batch.String()))
		} else {
			result.WriteString(normal.Render(batch.String()))
		}
		batch.Reset()
	}

	for i, r := range title {
		isMatch := matchSet[i]
		if isMatch != batchMatch {
			flush()
			batchMatch = isMatch
		}
		batch.WriteRune(r)
	}
	flush()

	return result.String()
}
