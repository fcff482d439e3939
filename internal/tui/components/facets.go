package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// FacetPanel shows the top weighted tags and developers of the listed entries
type FacetPanel struct {
	tags       []store.TagScore
	developers []store.Count
	width      int
	height     int
}

// NewFacetPanel creates an empty facet panel
func NewFacetPanel() FacetPanel {
	return FacetPanel{}
}

// SetFacets replaces the displayed aggregates
func (f *FacetPanel) SetFacets(tags []store.TagScore, developers []store.Count) {
	f.tags = tags
	f.developers = developers
}

func (f *FacetPanel) SetSize(width, height int) {
	f.width = width
	f.height = height
}

func (f FacetPanel) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(f.width-frameW-1, 10)
	inner := max(f.height-frameH, 1)

	// Split the height between the two sections
	perSection := max((inner-4)/2, 1)

	lines := []string{styles.AccentStyle.Render("Top tags")}
	if len(f.tags) == 0 {
		lines = append(lines, styles.DimStyle.Render("none"))
	}
	for i, t := range f.tags {
		if i == perSection {
			break
		}
		lines = append(lines, facetLine(t.Tag, fmt.Sprintf("%.1f", t.Score), contentWidth))
	}

	lines = append(lines, "", styles.AccentStyle.Render("Top developers"))
	if len(f.developers) == 0 {
		lines = append(lines, styles.DimStyle.Render("none"))
	}
	for i, c := range f.developers {
		if i == perSection {
			break
		}
		lines = append(lines, facetLine(c.Name, fmt.Sprintf("%d", c.Count), contentWidth))
	}

	if len(lines) > inner {
		lines = lines[:inner]
	}
	return style.
		Width(max(f.width-frameW, 0)).
		Height(max(f.height-frameH, 0)).
		Render(strings.Join(lines, "\n"))
}

func facetLine(name, value string, width int) string {
	nameWidth := max(width-len(value)-1, 4)
	return styles.SubtitleStyle.Render(styles.Pad(styles.Truncate(name, nameWidth), nameWidth)) +
		" " + styles.DimStyle.Render(value)
}
