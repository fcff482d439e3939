package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AppType classifies a catalog item
type AppType int

const (
	AppTypeUnknown AppType = iota
	AppTypeApplication
	AppTypeGame
	AppTypeDLC
	AppTypeDemo
	AppTypeMedia
	AppTypeTool
	AppTypeVideo
	AppTypeConfig
	AppTypeDriver
	AppTypeMod
)

var appTypeNames = map[AppType]string{
	AppTypeUnknown:     "unknown",
	AppTypeApplication: "application",
	AppTypeGame:        "game",
	AppTypeDLC:         "dlc",
	AppTypeDemo:        "demo",
	AppTypeMedia:       "media",
	AppTypeTool:        "tool",
	AppTypeVideo:       "video",
	AppTypeConfig:      "config",
	AppTypeDriver:      "driver",
	AppTypeMod:         "mod",
}

func (t AppType) String() string {
	if name, ok := appTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the type by name
func (t AppType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts a type name or the numeric form older files use
func (t *AppType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = ParseAppType(name)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid app type %s", data)
	}
	*t = AppType(n)
	return nil
}

// ParseAppType maps a source type string ("Game", "DLC", ...) to an AppType.
// Unrecognized values map to AppTypeUnknown.
func ParseAppType(s string) AppType {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range appTypeNames {
		if name == s {
			return t
		}
	}
	return AppTypeUnknown
}

// Platform is a bitset of supported operating systems
type Platform uint8

const (
	PlatformWindows Platform = 1 << iota
	PlatformMac
	PlatformLinux
	PlatformSteamDeck
)

const PlatformNone Platform = 0

// Has reports whether all bits of p2 are set in p
func (p Platform) Has(p2 Platform) bool {
	return p2 != PlatformNone && p&p2 == p2
}

func (p Platform) String() string {
	if p == PlatformNone {
		return "none"
	}
	var parts []string
	if p.Has(PlatformWindows) {
		parts = append(parts, "windows")
	}
	if p.Has(PlatformMac) {
		parts = append(parts, "mac")
	}
	if p.Has(PlatformLinux) {
		parts = append(parts, "linux")
	}
	if p.Has(PlatformSteamDeck) {
		parts = append(parts, "steamdeck")
	}
	return strings.Join(parts, ",")
}

// VRSupport lists the VR hardware a title works with
type VRSupport struct {
	Headsets []string `json:"headsets,omitempty"`
	Input    []string `json:"input,omitempty"`
	PlayArea []string `json:"playArea,omitempty"`
}

// IsEmpty returns true if no VR hardware is listed
func (v VRSupport) IsEmpty() bool {
	return len(v.Headsets) == 0 && len(v.Input) == 0 && len(v.PlayArea) == 0
}

// LanguageSupport lists supported languages, localized to the store language
type LanguageSupport struct {
	FullAudio []string `json:"fullAudio,omitempty"`
	Interface []string `json:"interface,omitempty"`
	Subtitles []string `json:"subtitles,omitempty"`
}

// IsEmpty returns true if no language is listed
func (l LanguageSupport) IsEmpty() bool {
	return len(l.FullAudio) == 0 && len(l.Interface) == 0 && len(l.Subtitles) == 0
}

// Entry is the metadata record for one catalog item.
// ParentID is a weak reference used only for attribute fallback.
type Entry struct {
	ID        int      `json:"id"`
	ParentID  int      `json:"parentId,omitempty"`
	Name      string   `json:"name,omitempty"`
	AppType   AppType  `json:"appType"`
	Platforms Platform `json:"platforms,omitempty"`

	// Ordered as received from the source; Tags order is rank
	Developers []string `json:"developers,omitempty"`
	Publishers []string `json:"publishers,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Flags      []string `json:"flags,omitempty"`

	VRSupport       VRSupport       `json:"vrSupport"`
	LanguageSupport LanguageSupport `json:"languageSupport"`

	SteamReleaseDate string `json:"steamReleaseDate,omitempty"`

	// Store-scrape extras
	Achievements             int    `json:"achievements,omitempty"`
	ReviewTotal              int    `json:"reviewTotal,omitempty"`
	ReviewPositivePercentage int    `json:"reviewPositivePercentage,omitempty"`
	MetacriticURL            string `json:"metacriticUrl,omitempty"`

	// HowLongToBeat times in minutes
	HltbMain          int `json:"hltbMain,omitempty"`
	HltbExtras        int `json:"hltbExtras,omitempty"`
	HltbCompletionist int `json:"hltbCompletionist,omitempty"`

	// Unix seconds; 0 = never
	LastStoreScrape   int64 `json:"lastStoreScrape,omitempty"`
	LastAppInfoUpdate int64 `json:"lastAppInfoUpdate,omitempty"`
}

// NewEntry returns a bare entry for id
func NewEntry(id int) *Entry {
	return &Entry{ID: id}
}

// Clone returns a deep copy of the entry
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Developers = cloneStrings(e.Developers)
	cp.Publishers = cloneStrings(e.Publishers)
	cp.Genres = cloneStrings(e.Genres)
	cp.Tags = cloneStrings(e.Tags)
	cp.Flags = cloneStrings(e.Flags)
	cp.VRSupport = VRSupport{
		Headsets: cloneStrings(e.VRSupport.Headsets),
		Input:    cloneStrings(e.VRSupport.Input),
		PlayArea: cloneStrings(e.VRSupport.PlayArea),
	}
	cp.LanguageSupport = LanguageSupport{
		FullAudio: cloneStrings(e.LanguageSupport.FullAudio),
		Interface: cloneStrings(e.LanguageSupport.Interface),
		Subtitles: cloneStrings(e.LanguageSupport.Subtitles),
	}
	return &cp
}

// ClearLocalized drops every field whose content depends on the store language
func (e *Entry) ClearLocalized() {
	e.Tags = nil
	e.Flags = nil
	e.Genres = nil
	e.SteamReleaseDate = ""
	e.VRSupport = VRSupport{}
	e.LanguageSupport = LanguageSupport{}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
