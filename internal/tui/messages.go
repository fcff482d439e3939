package tui

import (
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
)

// ErrMsg represents an error
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

// RowsLoadedMsg carries the catalog rows to list
type RowsLoadedMsg struct {
	Rows []library.Row
}

// RefreshDoneMsg signals that a catalog refresh finished
type RefreshDoneMsg struct {
	Result domain.RefreshResult
}

// TickMsg advances the spinner
type TickMsg struct{}

// ClearStatusMsg clears the footer status
type ClearStatusMsg struct{}
