package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// filterResultLimit caps fuzzy matches shown while filtering
const filterResultLimit = 500

// FacetSource computes the aggregates shown in the facet panel
type FacetSource interface {
	TagScores(subset *store.Subset, opts store.TagScoreOptions) []store.TagScore
	SortedDevelopers(subset *store.Subset, minCount int) []store.Count
}

// StoreOpener opens the store page of an entry
type StoreOpener interface {
	Open(id int) error
}

// Options configures the browser
type Options struct {
	Queries *library.Queries
	Facets  FacetSource
	Search  *search.Service
	Library *library.Service // nil disables refresh
	Opener  StoreOpener      // nil disables opening store pages

	Scoring  store.TagScoreOptions
	MinCount int
}

// Model is the main Bubble Tea model for the catalog browser
type Model struct {
	State ApplicationState
	Ready bool

	// Services
	Queries  *library.Queries
	FacetSrc FacetSource
	Search   *search.Service
	Library  *library.Service
	Opener   StoreOpener

	Scoring  store.TagScoreOptions
	MinCount int

	// UI Components
	List      *components.GameList
	Inspector components.Inspector
	Facets    components.FacetPanel

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	Loading       bool
	Refreshing    bool
	SpinnerFrame  int
	ShowInspector bool
	ShowFacets    bool

	facetQuery string // filter text the facets were computed for
	keys       KeyMap
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	m := Model{
		State:         StateBrowsing,
		Queries:       opts.Queries,
		FacetSrc:      opts.Facets,
		Search:        opts.Search,
		Library:       opts.Library,
		Opener:        opts.Opener,
		Scoring:       opts.Scoring,
		MinCount:      opts.MinCount,
		Inspector:     components.NewInspector(),
		Facets:        components.NewFacetPanel(),
		ShowInspector: true,
		keys:          DefaultKeyMap(),
	}
	m.Scoring.SortByScore = true

	var matcher components.Matcher
	if opts.Search != nil {
		matcher = func(query string) []search.Result {
			return opts.Search.Search(query, filterResultLimit)
		}
	}
	m.List = components.NewGameList("Catalog", matcher)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadRowsCmd(m.Queries, m.Search),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case RowsLoadedMsg:
		m.Loading = false
		selected, hadSelection := m.List.SelectedRow()
		m.List.SetRows(msg.Rows)
		if hadSelection {
			m.List.Select(selected.ID)
		}
		m.updateInspector()
		m.updateFacets()
		return m, nil

	case RefreshDoneMsg:
		m.Refreshing = false
		res := msg.Result
		m.StatusMsg = fmt.Sprintf("Refreshed: %d new, %d renamed, %d typed · %d total",
			res.Listing.Created, res.Listing.Updated, res.AppInfo.Updated, res.Total)
		m.StatusIsErr = false
		m.Loading = true
		return m, tea.Batch(LoadRowsCmd(m.Queries, m.Search), ClearStatusCmd(5*time.Second))

	case ErrMsg:
		m.Loading = false
		m.Refreshing = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, nil

	case ClearStatusMsg:
		if !m.StatusIsErr {
			m.StatusMsg = ""
		}
		return m, nil
	}

	// Cursor blink and other input messages go to the list
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// While typing a filter every key goes to the input except ctrl+c
	if m.List.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, m.keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		m.updateInspector()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFacets):
		m.ShowFacets = !m.ShowFacets
		m.updateLayout()
		m.updateFacets()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.Library == nil {
			m.StatusMsg = "Refresh is not configured"
			m.StatusIsErr = true
			return m, nil
		}
		if m.Refreshing {
			return m, nil
		}
		m.Refreshing = true
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, RefreshCmd(m.Library)

	case key.Matches(msg, m.keys.OpenStore):
		row, ok := m.List.SelectedRow()
		if !ok || m.Opener == nil {
			return m, nil
		}
		if err := m.Opener.Open(row.ID); err != nil {
			m.StatusMsg = "open store page: " + err.Error()
			m.StatusIsErr = true
			return m, nil
		}
		m.StatusMsg = "Opened store page for " + row.Name
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)
	}

	return m.updateList(msg)
}

// updateList forwards msg to the list and refreshes dependent panels
func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	m.updateInspector()
	if m.currentFilter() != m.facetQuery {
		m.updateFacets()
	}
	return m, cmd
}

// updateInspector syncs the inspector with the list selection
func (m *Model) updateInspector() {
	if !m.ShowInspector || m.Queries == nil {
		return
	}
	row, ok := m.List.SelectedRow()
	if !ok {
		m.Inspector.SetDetail(nil)
		return
	}
	detail, ok := m.Queries.Detail(row.ID)
	if !ok {
		m.Inspector.SetDetail(nil)
		return
	}
	m.Inspector.SetDetail(&detail)
}

// updateFacets recomputes aggregates over the rows currently listed
func (m *Model) updateFacets() {
	m.facetQuery = m.currentFilter()
	if !m.ShowFacets || m.FacetSrc == nil {
		return
	}

	var subset *store.Subset
	if m.List.IsFiltering() && m.facetQuery != "" {
		subset = &store.Subset{IDs: m.List.VisibleIDs()}
	}
	m.Facets.SetFacets(
		m.FacetSrc.TagScores(subset, m.Scoring),
		m.FacetSrc.SortedDevelopers(subset, m.MinCount),
	)
}

func (m Model) currentFilter() string {
	if !m.List.IsFiltering() {
		return ""
	}
	return strings.TrimSpace(m.List.FilterQuery())
}

func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := m.calculateColumnLayout(m.Width)
	panels := []string{m.List.View()}
	if layout.inspectorWidth > 0 {
		panels = append(panels, m.Inspector.View())
	}
	if layout.facetsWidth > 0 {
		panels = append(panels, m.Facets.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Refreshing:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Refreshing catalog...")
	case m.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelp() string {
	help := `
NAVIGATION                      VIEW
  j/k        Up/down               i      Toggle info panel
  g/Home     First entry           t      Toggle tag facets
  G/End      Last entry            /      Filter by name
  PgUp/PgDn  Scroll page           Esc    Clear filter
  Ctrl+u/d   Scroll half page

OTHER
  r          Refresh catalog
  o          Open store page
  ?          This help
  q          Quit

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
