package tui

// Layout proportions
const (
	// List + inspector + facets
	ListPercent3      = 45
	InspectorPercent3 = 35

	// List + one side panel
	ListPercent2 = 55

	MinColumnWidth = 20

	// Vertical layout: single footer line
	ChromeHeight = 1
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
	facetsWidth    int // 0 if not shown
}

// calculateColumnLayout computes column widths from panel visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	var layout columnLayout
	switch {
	case m.ShowInspector && m.ShowFacets:
		layout.listWidth = applyMin(availableWidth * ListPercent3 / 100)
		layout.inspectorWidth = applyMin(availableWidth * InspectorPercent3 / 100)
		layout.facetsWidth = applyMin(availableWidth - layout.listWidth - layout.inspectorWidth)
	case m.ShowInspector:
		layout.listWidth = applyMin(availableWidth * ListPercent2 / 100)
		layout.inspectorWidth = applyMin(availableWidth - layout.listWidth)
	case m.ShowFacets:
		layout.listWidth = applyMin(availableWidth * ListPercent2 / 100)
		layout.facetsWidth = applyMin(availableWidth - layout.listWidth)
	default:
		layout.listWidth = availableWidth
	}
	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	layout := m.calculateColumnLayout(m.Width)

	m.List.SetSize(layout.listWidth, contentHeight)
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
	if layout.facetsWidth > 0 {
		m.Facets.SetSize(layout.facetsWidth, contentHeight)
	}
}
