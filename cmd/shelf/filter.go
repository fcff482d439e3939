package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
)

var platformNames = map[string]domain.Platform{
	"windows":   domain.PlatformWindows,
	"mac":       domain.PlatformMac,
	"linux":     domain.PlatformLinux,
	"steamdeck": domain.PlatformSteamDeck,
}

var appTypeNames = []string{
	"application", "game", "dlc", "demo", "media", "tool", "video", "config", "driver", "mod",
}

// scopeFlags narrows aggregate commands to a subset of the catalog
type scopeFlags struct {
	types    []string
	tag      string
	platform string
	vrOnly   bool
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "only entries of these app types")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only entries carrying this tag (inherited tags count)")
	cmd.Flags().StringVar(&f.platform, "platform", "", "only entries on this platform (windows, mac, linux, steamdeck)")
	cmd.Flags().BoolVar(&f.vrOnly, "vr", false, "only entries with VR support")
}

func (f *scopeFlags) empty() bool {
	return len(f.types) == 0 && f.tag == "" && f.platform == "" && !f.vrOnly
}

// subset resolves the flags to a store subset; nil means the whole catalog
func (f *scopeFlags) subset(q *library.Queries) (*store.Subset, error) {
	if f.empty() {
		return nil, nil
	}

	filter := library.Filter{Tag: f.tag, VROnly: f.vrOnly}
	for _, name := range f.types {
		t := domain.ParseAppType(name)
		if t == domain.AppTypeUnknown {
			return nil, unknownTerm("app type", name, appTypeNames)
		}
		filter.Types = append(filter.Types, t)
	}
	if f.platform != "" {
		p, ok := platformNames[strings.ToLower(f.platform)]
		if !ok {
			return nil, unknownTerm("platform", f.platform, []string{"windows", "mac", "linux", "steamdeck"})
		}
		filter.Platform = p
	}

	return &store.Subset{IDs: q.Find(filter)}, nil
}

// unknownTerm builds an error for a value outside vocab, suggesting the
// closest known term when one is near enough
func unknownTerm(kind, value string, vocab []string) error {
	if guess, ok := search.ClosestTerm(value, vocab); ok {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, value, guess)
	}
	return fmt.Errorf("unknown %s %q", kind, value)
}
