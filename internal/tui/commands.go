package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
)

// refreshTimeout bounds a full listing download plus cache read
const refreshTimeout = 10 * time.Minute

// LoadRowsCmd rebuilds the name index and loads every catalog row
func LoadRowsCmd(queries *library.Queries, searchSvc *search.Service) tea.Cmd {
	return func() tea.Msg {
		if searchSvc != nil {
			searchSvc.Rebuild()
		}
		return RowsLoadedMsg{Rows: queries.Rows(nil)}
	}
}

// RefreshCmd runs a full catalog refresh
func RefreshCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		res, err := svc.Refresh(ctx, nil)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing catalog"}
		}
		return RefreshDoneMsg{Result: res}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
