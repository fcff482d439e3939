package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/adapter/source"
	"github.com/mmcdole/shelf/internal/appinfo"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
)

// app holds the process-wide wiring shared by every subcommand. The catalog
// store is constructed here and nowhere else.
type app struct {
	configFile string
	cfg        *adapter.Config
	logger     *slog.Logger
	logCloser  io.Closer
	store      *store.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Local catalog of Steam app metadata",
		Long: `shelf keeps a local snapshot of Steam app metadata and answers
questions about it: inherited tags and genres, developer and publisher
counts, weighted tag scores and fuzzy name search.

Run "shelf refresh" first to build the catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is the user config dir)")

	root.AddCommand(
		newRefreshCmd(a),
		newImportAppInfoCmd(a),
		newLanguageCmd(a),
		newShowCmd(a),
		newOpenCmd(a),
		newSearchCmd(a),
		newTagsCmd(a),
		newVocabCmd(a),
		newCountsCmd(a, "devs", "developers"),
		newCountsCmd(a, "pubs", "publishers"),
		newStaleCmd(a),
		newBrowseCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shelf %s\n", Version)
		},
	}
}

// setup loads configuration, logging and the catalog snapshot
func (a *app) setup() error {
	cfg, err := adapter.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	a.logger = logger
	a.logCloser = closer
	slog.SetDefault(logger)

	a.store = store.New(store.Config{
		Path:   cfg.Catalog.Path,
		Pretty: cfg.Catalog.Pretty,
		Depth:  cfg.Catalog.ResolveDepth,
	}, logger)

	if err := a.store.Load(); err != nil {
		if errors.Is(err, domain.ErrSnapshotCorrupt) {
			return fmt.Errorf("%w (remove the file or run \"shelf refresh\" after moving it aside)", err)
		}
		return err
	}

	// An empty catalog simply adopts the configured language; a populated
	// one in another language is invalidated
	lang := cfg.Language()
	if a.store.Count() == 0 {
		a.store.Reset(lang)
	} else if a.store.Language() != lang {
		logger.Warn("catalog language differs from config", "catalog", a.store.Language(), "config", lang)
		if err := a.store.ChangeLanguage(lang); err != nil {
			return fmt.Errorf("change catalog language: %w", err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		a.logCloser.Close()
		a.logCloser = nil
	}
}

func (a *app) openCache() (*appinfo.Cache, error) {
	cache, err := appinfo.Open(a.cfg.AppInfo.Path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open app info cache: %w", err)
	}
	return cache, nil
}

// libraryService wires the listing source and the app-info cache to the
// store. The returned cache must be closed by the caller.
func (a *app) libraryService(withSource bool) (*library.Service, *appinfo.Cache, error) {
	var src domain.ListingSource
	if withSource {
		var err error
		src, err = source.NewListingSource(a.cfg, a.logger)
		if err != nil {
			return nil, nil, err
		}
	}

	cache, err := a.openCache()
	if err != nil {
		return nil, nil, err
	}
	return library.NewService(src, cache, a.store, a.logger), cache, nil
}

func (a *app) queries() *library.Queries {
	return library.NewQueries(a.store, a.maxAge())
}

func (a *app) searchService() *search.Service {
	svc := search.NewService(a.store, a.logger)
	svc.Rebuild()
	return svc
}

func (a *app) maxAge() time.Duration {
	return a.cfg.Catalog.MaxAge
}

func (a *app) scoring() store.TagScoreOptions {
	return store.TagScoreOptions{
		WeightFactor:  a.cfg.Scoring.WeightFactor,
		TagsPerGame:   a.cfg.Scoring.TagsPerGame,
		MinScore:      a.cfg.Scoring.MinScore,
		ExcludeGenres: a.cfg.Scoring.ExcludeGenres,
		SortByScore:   true,
	}
}
