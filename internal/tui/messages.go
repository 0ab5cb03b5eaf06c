package tui

import "github.com/mmcdole/toonkor/internal/service"

// Message types for the TUI

// SearchSettledMsg carries a finished search request back to the UI loop
type SearchSettledMsg struct {
	Settlement service.Settlement
}

// PageOpenedMsg signals a result page was handed to the browser
type PageOpenedMsg struct {
	URL string
}

// ErrMsg represents an error outside the search flow
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	gen int
}
