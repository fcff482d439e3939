package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show an entry with inherited attributes resolved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.lookup(args)
			if err != nil {
				return err
			}

			d, ok := a.queries().Detail(id)
			if !ok {
				return fmt.Errorf("app %d is not in the catalog", id)
			}
			printDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func newOpenCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <id|name>",
		Short: "Open the store page of an entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.lookup(args)
			if err != nil {
				return err
			}

			opener := adapter.NewOpener(a.cfg.Open, a.logger)
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), opener.StoreURL(id))
				return nil
			}
			return opener.Open(id)
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the URL instead of opening it")
	return cmd
}

// lookup resolves a numeric id or, failing that, the best fuzzy name match
func (a *app) lookup(args []string) (int, error) {
	query := strings.Join(args, " ")
	if id, err := strconv.Atoi(query); err == nil {
		return id, nil
	}

	results := a.searchService().Search(query, 1)
	if len(results) == 0 {
		return 0, fmt.Errorf("no entry matches %q", query)
	}
	return results[0].ID, nil
}

func printDetail(w io.Writer, d library.Detail) {
	e := d.Entry
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("App %d", e.ID)
	}
	fmt.Fprintln(w, styles.TitleStyle.Render(name))

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintln(w, styles.LabelStyle.Render(label)+value)
	}
	list := func(label string, values []string) {
		field(label, strings.Join(values, ", "))
	}

	field("ID", strconv.Itoa(e.ID))
	field("Type", e.AppType.String())
	if e.ParentID > 0 {
		parent := d.ParentName
		if parent == "" {
			parent = "(not in catalog)"
		}
		field("Parent", fmt.Sprintf("%s (%d)", parent, e.ParentID))
	}
	field("Platforms", e.Platforms.String())
	if d.ReleaseYear > 0 {
		field("Released", fmt.Sprintf("%s (%d)", e.SteamReleaseDate, d.ReleaseYear))
	}
	list("Developers", d.Developers)
	list("Publishers", d.Publishers)
	list("Genres", d.Genres)
	list("Tags", d.Tags)
	list("Features", d.Flags)
	if d.SupportsVR {
		field("VR", "supported")
	}
	list("Audio", e.LanguageSupport.FullAudio)
	list("Interface", e.LanguageSupport.Interface)
	list("Subtitles", e.LanguageSupport.Subtitles)
	if e.ReviewTotal > 0 {
		field("Reviews", fmt.Sprintf("%d%% positive of %d", e.ReviewPositivePercentage, e.ReviewTotal))
	}
	if d.Stale {
		field("Store data", styles.WarnStyle.Render("stale"))
	} else {
		field("Store data", styles.SuccessStyle.Render("fresh"))
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search entry names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			results := a.searchService().Search(query, limit)

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, styles.DimStyle.Render("no matches"))
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%8d  %s\n", r.ID, highlight(r.Name, r.MatchedIndexes))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum results (0 = all)")
	return cmd
}

// highlight renders matched rune positions of name in the accent style
func highlight(name string, matched []int) string {
	var b strings.Builder
	for _, part := range styles.HighlightParts(name, matched) {
		if part.Bold {
			b.WriteString(styles.MatchHighlightStyle.Render(part.Text))
		} else {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func newTagsCmd(a *app) *cobra.Command {
	var (
		scope  scopeFlags
		limit  int
		alpha  bool
		weight float64
		per    int
		minScr float64
		noGen  bool
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Rank tags by rank-weighted score",
		Long: `Scores the first --per-game tags of every entry in scope. The top-ranked
tag of an entry scores --weight, falling linearly to 1.0 for the last one
taken; scores are summed across entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subset, err := scope.subset(a.queries())
			if err != nil {
				return err
			}

			opts := a.scoring()
			flags := cmd.Flags()
			if flags.Changed("weight") {
				opts.WeightFactor = weight
			}
			if flags.Changed("per-game") {
				opts.TagsPerGame = per
			}
			if flags.Changed("min-score") {
				opts.MinScore = minScr
			}
			if flags.Changed("exclude-genres") {
				opts.ExcludeGenres = noGen
			}
			opts.SortByScore = !alpha

			scores := a.store.TagScores(subset, opts)
			if limit > 0 && len(scores) > limit {
				scores = scores[:limit]
			}

			out := cmd.OutOrStdout()
			for _, s := range scores {
				fmt.Fprintf(out, "%10.2f  %s\n", s.Score, s.Tag)
			}
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "maximum tags (0 = all)")
	cmd.Flags().BoolVar(&alpha, "alpha", false, "sort alphabetically instead of by score")
	cmd.Flags().Float64Var(&weight, "weight", 0, "score of an entry's top tag (default from config)")
	cmd.Flags().IntVar(&per, "per-game", 0, "tags taken per entry, 0 = all (default from config)")
	cmd.Flags().Float64Var(&minScr, "min-score", 0, "drop tags scoring below this (default from config)")
	cmd.Flags().BoolVar(&noGen, "exclude-genres", false, "drop tags that are also genres (default from config)")
	return cmd
}

// vocabularies maps a vocabulary name to its extractor
var vocabularies = map[string]func(s *store.Store, subset *store.Subset) []string{
	"flags":  (*store.Store).AllFlags,
	"genres": (*store.Store).AllGenres,
	"audio": func(s *store.Store, subset *store.Subset) []string {
		return s.AllLanguages(subset).FullAudio
	},
	"interface": func(s *store.Store, subset *store.Subset) []string {
		return s.AllLanguages(subset).Interface
	},
	"subtitles": func(s *store.Store, subset *store.Subset) []string {
		return s.AllLanguages(subset).Subtitles
	},
	"headsets": func(s *store.Store, subset *store.Subset) []string {
		return s.AllVRSupport(subset).Headsets
	},
	"vr-input": func(s *store.Store, subset *store.Subset) []string {
		return s.AllVRSupport(subset).Input
	},
	"playarea": func(s *store.Store, subset *store.Subset) []string {
		return s.AllVRSupport(subset).PlayArea
	},
}

func vocabularyNames() []string {
	return []string{"flags", "genres", "audio", "interface", "subtitles", "headsets", "vr-input", "playarea"}
}

func newVocabCmd(a *app) *cobra.Command {
	var scope scopeFlags

	cmd := &cobra.Command{
		Use:   "vocab <" + strings.Join(vocabularyNames(), "|") + "> [filter]",
		Short: "List the distinct values of a vocabulary",
		Long: `Lists every distinct value of a vocabulary in scope, deduplicated
ignoring case and sorted. An optional filter keeps values that fuzzily
contain it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			extract, ok := vocabularies[strings.ToLower(args[0])]
			if !ok {
				return unknownTerm("vocabulary", args[0], vocabularyNames())
			}

			subset, err := scope.subset(a.queries())
			if err != nil {
				return err
			}

			values := extract(a.store, subset)
			if len(args) == 2 {
				values = search.FilterVocabulary(args[1], values)
			}

			out := cmd.OutOrStdout()
			for _, v := range values {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
	scope.register(cmd)
	return cmd
}

// newCountsCmd builds the developer or publisher frequency command
func newCountsCmd(a *app, use, noun string) *cobra.Command {
	var (
		scope    scopeFlags
		minCount int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Count entries per %s", strings.TrimSuffix(noun, "s")),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subset, err := scope.subset(a.queries())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-count") {
				minCount = a.cfg.Scoring.MinCount
			}

			var counts []store.Count
			if noun == "developers" {
				counts = a.store.SortedDevelopers(subset, minCount)
			} else {
				counts = a.store.SortedPublishers(subset, minCount)
			}
			if limit > 0 && len(counts) > limit {
				counts = counts[:limit]
			}

			out := cmd.OutOrStdout()
			for _, c := range counts {
				fmt.Fprintf(out, "%6d  %s\n", c.Count, c.Name)
			}
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().IntVar(&minCount, "min-count", 1, "omit names credited fewer times (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "maximum rows (0 = all)")
	return cmd
}

func newStaleCmd(a *app) *cobra.Command {
	var (
		scope scopeFlags
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "Report entries whose store data needs a rescrape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subset, err := scope.subset(a.queries())
			if err != nil {
				return err
			}

			ids := a.store.StaleIDs(a.maxAge(), subset)
			out := cmd.OutOrStdout()
			if list {
				for _, id := range ids {
					fmt.Fprintf(out, "%d\t%s\n", id, a.store.Name(id))
				}
				return nil
			}

			total := a.store.Count()
			if subset != nil {
				total = len(subset.IDs)
			}
			fmt.Fprintf(out, "%d of %d entries stale (max age %s)\n", len(ids), total, a.maxAge())
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "print each stale id and name")
	return cmd
}
