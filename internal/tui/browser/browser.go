// Package browser implements the dream list overlay: an incrementally
// loaded, newest-first list fetched page by page as the cursor approaches
// the end of what has been loaded.
package browser

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/dream"
)

// visibleRows bounds the scrollable region of the overlay.
const visibleRows = 12

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("57")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DreamSelectedMsg is emitted when the user picks a dream from the list.
type DreamSelectedMsg struct {
	ID string
}

// CloseMsg is emitted when the user dismisses the browser.
type CloseMsg struct{}

type (
	pageMsg struct {
		offset int
		page   api.DreamPage
	}

	pageFailedMsg struct {
		offset int
		err    error
	}
)

// Model is the dream browser component. Accumulated items persist for the
// component's lifetime; reopening never re-fetches page zero.
type Model struct {
	client   *api.Client
	log      *zap.Logger
	pageSize int

	items      []dream.Summary
	cursor     int
	top        int // first visible row
	hasMore    bool
	totalCount int

	// loading is the single-flight guard: while a page fetch is in flight
	// no further fetch is triggered.
	loading bool
	// fetched is set after the first page has settled, successfully or not.
	// It distinguishes "never opened" from "opened and empty".
	fetched  bool
	fetchErr string

	spinner spinner.Model
}

// New creates an empty browser. Nothing is fetched until Open.
func New(client *api.Client, log *zap.Logger, pageSize int) Model {
	return Model{
		client:   client,
		log:      log,
		pageSize: pageSize,
		hasMore:  true,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Items returns the accumulated summaries in server order.
func (m Model) Items() []dream.Summary { return m.items }

// Loading reports whether a page fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// HasMore reports whether the server has more pages.
func (m Model) HasMore() bool { return m.hasMore }

// Open prepares the browser for display. On first open (no accumulated
// items) it triggers the initial page fetch; on later opens the accumulated
// list is shown as-is.
func (m Model) Open() (Model, tea.Cmd) {
	if len(m.items) > 0 || m.loading {
		return m, nil
	}
	return m.fetchPage(0)
}

// fetchPage requests one page starting at offset. The loading flag is a
// best-effort single-flight guard, not a queue: callers re-check conditions
// after the in-flight call settles.
func (m Model) fetchPage(offset int) (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.fetchErr = ""
	client, log, limit := m.client, m.log, m.pageSize
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		page, err := client.ListDreams(ctx, offset, limit)
		if err != nil {
			log.Warn("dream list fetch failed", zap.Int("offset", offset), zap.Error(err))
			return pageFailedMsg{offset: offset, err: err}
		}
		return pageMsg{offset: offset, page: page}
	})
}

// wantMore is the pagination trigger condition: the cursor sits on the last
// loaded item (the sentinel row is visible), the server has more, and no
// fetch is in flight.
func (m Model) wantMore() bool {
	return m.hasMore && !m.loading && len(m.items) > 0 && m.cursor >= len(m.items)-1
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scrollIntoView()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.scrollIntoView()
			}
			if m.wantMore() {
				return m.fetchPage(len(m.items))
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.items) {
				id := m.items[m.cursor].ID
				return m, func() tea.Msg { return DreamSelectedMsg{ID: id} }
			}
			return m, nil
		case "r":
			// Retry after a failed fetch; a no-op while loading.
			if m.fetchErr != "" {
				return m.fetchPage(len(m.items))
			}
			return m, nil
		case "esc", "l":
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case pageMsg:
		// A page is appended only at the position it was requested for;
		// anything else is stale and dropped.
		if msg.offset != len(m.items) {
			m.loading = false
			return m, nil
		}
		m.loading = false
		m.fetched = true
		m.items = append(m.items, msg.page.Dreams...)
		m.hasMore = msg.page.HasMore
		m.totalCount = msg.page.TotalCount
		return m, nil

	case pageFailedMsg:
		m.loading = false
		m.fetched = true
		m.fetchErr = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) scrollIntoView() {
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+visibleRows {
		m.top = m.cursor - visibleRows + 1
	}
}

func (m Model) View() string {
	title := titleStyle.Render(" Dreams ")
	if m.totalCount > 0 {
		title += dimStyle.Render(fmt.Sprintf(" %d/%d loaded", len(m.items), m.totalCount))
	}

	var body string
	switch {
	case len(m.items) == 0 && m.loading:
		body = m.spinner.View() + dimStyle.Render(" Loading dreams...")
	case len(m.items) == 0 && m.fetchErr != "":
		body = errorStyle.Render("✗ "+m.fetchErr) + "\n" + dimStyle.Render("[r] retry")
	case len(m.items) == 0 && m.fetched:
		body = dimStyle.Render("No dreams yet. Press n to start one.")
	default:
		body = m.renderItems()
	}

	help := dimStyle.Render("↑/↓ move · enter open · esc close")
	return borderStyle.Render(title + "\n\n" + body + "\n\n" + help)
}

func (m Model) renderItems() string {
	end := min(m.top+visibleRows, len(m.items))
	var out string
	for i := m.top; i < end; i++ {
		s := m.items[i]
		line := fmt.Sprintf("%s  %s", s.CreatedAt.Format("Jan 02 15:04"), s.DisplayLabel())
		if i == m.cursor {
			out += selectedStyle.Render("> "+line) + "\n"
		} else {
			out += itemStyle.Render("  "+line) + "\n"
		}
	}

	// Terminator row: a spinner while fetching, an error with retry on
	// failure, and an explicit all-loaded marker once pagination is
	// exhausted so no further trigger can fire.
	switch {
	case m.loading:
		out += m.spinner.View() + dimStyle.Render(" loading more...")
	case m.fetchErr != "":
		out += errorStyle.Render("✗ "+m.fetchErr) + dimStyle.Render("  [r] retry")
	case !m.hasMore:
		out += dimStyle.Render(fmt.Sprintf("• all %d dreams loaded", len(m.items)))
	default:
		out += dimStyle.Render("↓ more")
	}
	return out
}
