package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("browse needs an interactive terminal")
			}

			var libSvc *library.Service
			if !offline {
				svc, cache, err := a.libraryService(true)
				if err != nil {
					return err
				}
				defer cache.Close()
				libSvc = svc
			}

			model := tui.NewModel(tui.Options{
				Queries:  a.queries(),
				Facets:   a.store,
				Search:   search.NewService(a.store, a.logger),
				Library:  libSvc,
				Opener:   adapter.NewOpener(a.cfg.Open, a.logger),
				Scoring:  a.scoring(),
				MinCount: a.cfg.Scoring.MinCount,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())

			a.logger.Info("starting TUI")
			if _, err := p.Run(); err != nil {
				a.logger.Error("TUI error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			a.logger.Info("shutting down")
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "disable refresh from the browser")
	return cmd
}
