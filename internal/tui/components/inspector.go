package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Inspector displays resolved metadata for the selected entry
type Inspector struct {
	detail *library.Detail
	width  int
	height int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetDetail sets the entry to display; nil clears it
func (i *Inspector) SetDetail(d *library.Detail) {
	i.detail = d
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// HasItem returns true if there is an entry to display
func (i Inspector) HasItem() bool {
	return i.detail != nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(i.width-frameW-1, 10)

	lines := []string{styles.AccentStyle.Render("Info"), ""}
	if i.detail == nil {
		lines = append(lines, styles.DimStyle.Render("Nothing selected"))
	} else {
		lines = append(lines, i.renderDetail(contentWidth)...)
	}

	// Keep within the panel; the border adds the rest
	maxLines := max(i.height-frameH, 1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(lines, "\n"))
}

func (i Inspector) renderDetail(width int) []string {
	d := i.detail
	e := d.Entry

	lines := []string{
		styles.TitleStyle.Render(styles.Truncate(displayName(e), width)),
		styles.DimStyle.Render(fmt.Sprintf("#%d  %s", e.ID, e.AppType)),
		"",
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		valueWidth := max(width-12, 4)
		lines = append(lines, styles.LabelStyle.Render(label)+styles.Truncate(value, valueWidth))
	}
	list := func(label string, values []string) {
		field(label, strings.Join(values, ", "))
	}

	if e.ParentID > 0 {
		parent := d.ParentName
		if parent == "" {
			parent = "(missing)"
		}
		field("Parent", fmt.Sprintf("%s #%d", parent, e.ParentID))
	}
	if e.Platforms != domain.PlatformNone {
		field("Platforms", e.Platforms.String())
	}
	if d.ReleaseYear > 0 {
		field("Released", fmt.Sprintf("%d", d.ReleaseYear))
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
	if e.ReviewTotal > 0 {
		field("Reviews", fmt.Sprintf("%d%% of %d", e.ReviewPositivePercentage, e.ReviewTotal))
	}
	if e.Achievements > 0 {
		field("Achievements", fmt.Sprintf("%d", e.Achievements))
	}
	if e.HltbMain > 0 {
		field("HLTB", fmt.Sprintf("%dh / %dh / %dh", e.HltbMain, e.HltbExtras, e.HltbCompletionist))
	}

	lines = append(lines, "")
	if d.Stale {
		lines = append(lines, styles.WarnStyle.Render("store data stale"))
	} else {
		lines = append(lines, styles.SuccessStyle.Render("store data fresh"))
	}
	return lines
}

func displayName(e *domain.Entry) string {
	if e.Name == "" {
		return fmt.Sprintf("App %d", e.ID)
	}
	return e.Name
}
