package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// clearProgressLine clears the progress line from the terminal
const clearProgressLine = "\r                                        \r"

// signalContext returns a context canceled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRefreshCmd(a *app) *cobra.Command {
	var cacheOnly bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the app listing, merge the local app info cache and save",
		Long: `Downloads the bulk app listing (or reads steam.listing_file), merges it
and the local app info cache into the catalog, then writes the snapshot.

With --cache-only the listing is skipped and only the cache is merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			svc, cache, err := a.libraryService(!cacheOnly)
			if err != nil {
				return err
			}
			defer cache.Close()

			errOut := cmd.ErrOrStderr()
			res, err := svc.Refresh(ctx, func(loaded, total int) {
				if total > 0 {
					fmt.Fprintf(errOut, "\rFetched %d/%d apps", loaded, total)
				} else {
					fmt.Fprintf(errOut, "\rFetched %d apps", loaded)
				}
			})
			fmt.Fprint(errOut, clearProgressLine)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d new, %d renamed from listing\n",
				styles.SuccessStyle.Render("✓"), res.Listing.Created, res.Listing.Updated)
			fmt.Fprintf(out, "%s %d new, %d updated from app info cache\n",
				styles.SuccessStyle.Render("✓"), res.AppInfo.Created, res.AppInfo.Updated)
			if skipped := res.Listing.Skipped + res.AppInfo.Skipped; skipped > 0 {
				fmt.Fprintf(out, "%s %d malformed records skipped\n", styles.WarnStyle.Render("!"), skipped)
			}
			fmt.Fprintf(out, "Catalog: %d entries (%s)\n", res.Total, a.store.Language())
			return nil
		},
	}
	cmd.Flags().BoolVar(&cacheOnly, "cache-only", false, "skip the listing download")
	return cmd
}

func newImportAppInfoCmd(a *app) *cobra.Command {
	var integrate bool

	cmd := &cobra.Command{
		Use:   "import-appinfo <dump.json>",
		Short: "Load an app info JSON dump into the local cache",
		Long: `Reads a JSON array of app info records ({"appid", "common": {"name",
"type", "oslist", "parent"}}) into the local cache. Use "-" for stdin.

By default the cache is then merged into the catalog and saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open dump: %w", err)
				}
				defer f.Close()
				r = f
			}

			svc, cache, err := a.libraryService(false)
			if err != nil {
				return err
			}
			defer cache.Close()

			res, err := cache.ImportJSON(ctx, r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s imported %d records (%d skipped), cache holds %d\n",
				styles.SuccessStyle.Render("✓"), res.Imported, res.Skipped, cache.Count())

			if !integrate {
				return nil
			}
			merged, err := svc.IntegrateLocalCache(ctx)
			if err != nil {
				return err
			}
			if err := a.store.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %d new, %d updated catalog entries\n",
				styles.SuccessStyle.Render("✓"), merged.Created, merged.Updated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&integrate, "integrate", true, "merge the cache into the catalog afterwards")
	return cmd
}

func newLanguageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "language [code]",
		Short: "Show or change the store language",
		Long: `Without arguments prints the catalog language and the supported codes.

Changing the language clears every localized field (tags, genres, flags,
VR and language lists, release dates), marks each entry for a new store
scrape and saves the catalog and the config. Names, types, platforms,
review and achievement counts are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "%s\n", a.store.Language())
				fmt.Fprintln(out, styles.DimStyle.Render("supported: "+strings.Join(languageCodes(), ", ")))
				return nil
			}

			lang, err := domain.ParseLanguage(args[0])
			if err != nil {
				if guess, ok := search.ClosestTerm(args[0], languageCodes()); ok {
					return fmt.Errorf("%w (did you mean %q?)", err, guess)
				}
				return err
			}

			previous := a.store.Language()
			if err := a.store.ChangeLanguage(lang); err != nil {
				return err
			}

			a.cfg.Catalog.Language = string(lang)
			if err := adapter.SaveConfig(a.cfg, a.configFile); err != nil {
				return err
			}

			if previous == lang {
				fmt.Fprintf(out, "Language already %s\n", lang)
				return nil
			}
			fmt.Fprintf(out, "%s language %s → %s, %d entries marked for rescrape\n",
				styles.SuccessStyle.Render("✓"), previous, lang, a.store.Count())
			return nil
		},
	}
}

func languageCodes() []string {
	langs := domain.Languages()
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = string(l)
	}
	return codes
}
