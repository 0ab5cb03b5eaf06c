package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toonkor/internal/service"
)

// Command factories for async operations

// SearchCmd runs an issued search off the UI goroutine
func SearchCmd(pending *service.PendingSearch) tea.Cmd {
	return func() tea.Msg {
		return SearchSettledMsg{Settlement: pending.Run()}
	}
}

// OpenPageCmd opens a result page in the browser
func OpenPageCmd(opener PageOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening page"}
		}
		return PageOpenedMsg{URL: url}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(gen int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{gen: gen}
	})
}
