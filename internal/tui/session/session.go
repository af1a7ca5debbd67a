// Package session implements the single-dream view: it loads one dream's
// full concept history, renders it, and drives the continue action.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/dream"
)

// State is the session lifecycle state.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateNotFound
	StateFailed
)

// copyNotice is how long the copied-link confirmation stays visible.
const copyNotice = 2 * time.Second

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	seedBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	generatedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// Messages produced by session commands.
type (
	// loadedMsg carries a freshly fetched dream. gen identifies the load
	// that produced it; stale generations are dropped.
	loadedMsg struct {
		gen   int
		dream dream.Dream
	}

	loadFailedMsg struct {
		gen int
		err error
	}

	continuedMsg struct {
		err error
	}

	linkCopiedMsg struct {
		err error
	}

	copyExpiredMsg struct {
		gen int
	}
)

// Model is the dream session component.
type Model struct {
	client *api.Client
	log    *zap.Logger

	dreamID string
	state   State
	dream   dream.Dream

	// failErr is set in StateFailed; transientErr is attached to StateLoaded
	// after a failed continuation or refresh and cleared on the next action.
	failErr      error
	transientErr string

	// continuing is true from the continue request until the follow-up
	// refresh settles. At most one continuation is in flight.
	continuing bool

	// gen counts loads; results tagged with an older gen are stale and
	// ignored. Guards against updates from an abandoned load.
	gen int

	copied  bool
	copyGen int

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a session for one dream. Init issues the initial load, so the
// model mounts in StateLoading.
func New(client *api.Client, log *zap.Logger, dreamID string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		client:  client,
		log:     log,
		dreamID: dreamID,
		state:   StateLoading,
		spinner: sp,
	}
}

// DreamID returns the dream this session is bound to.
func (m Model) DreamID() string { return m.dreamID }

// State returns the current lifecycle state.
func (m Model) State() State { return m.state }

// Dream returns the loaded dream. Only meaningful in StateLoaded.
func (m Model) Dream() dream.Dream { return m.dream }

// Continuing reports whether a continuation is in flight.
func (m Model) Continuing() bool { return m.continuing }

// CanContinue reports whether the continue action is available: a loaded
// dream with at least two concepts and no continuation in flight.
func (m Model) CanContinue() bool {
	return m.state == StateLoaded && m.dream.CanContinue() && !m.continuing
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.gen))
}

func (m Model) load(gen int) tea.Cmd {
	client, id, log := m.client, m.dreamID, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		d, err := client.GetDream(ctx, id)
		if err != nil {
			log.Warn("dream load failed", zap.String("dream_id", id), zap.Error(err))
			return loadFailedMsg{gen: gen, err: err}
		}
		return loadedMsg{gen: gen, dream: d}
	}
}

func (m Model) continueDream() tea.Cmd {
	client, id, log := m.client, m.dreamID, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		if err := client.ContinueDream(ctx, id); err != nil {
			log.Warn("dream continue failed", zap.String("dream_id", id), zap.Error(err))
			return continuedMsg{err: err}
		}
		return continuedMsg{}
	}
}

func (m Model) copyShareLink() tea.Cmd {
	url := m.client.DreamURL(m.dreamID)
	return func() tea.Msg {
		return linkCopiedMsg{err: clipboard.WriteAll(url)}
	}
}

// Reload re-enters StateLoading and issues a fresh load. Valid from any
// state.
func (m Model) Reload() (Model, tea.Cmd) {
	m.gen++
	m.state = StateLoading
	m.failErr = nil
	m.transientErr = ""
	m.continuing = false
	return m, tea.Batch(m.spinner.Tick, m.load(m.gen))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(msg.Height-6, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderConcepts())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m.Reload()
		case "c":
			if !m.CanContinue() {
				return m, nil
			}
			m.continuing = true
			m.transientErr = ""
			return m, tea.Batch(m.spinner.Tick, m.continueDream())
		case "y":
			if m.state != StateLoaded {
				return m, nil
			}
			return m, m.copyShareLink()
		default:
			if m.ready {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

	case loadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.state = StateLoaded
		m.dream = msg.dream
		m.failErr = nil
		m.continuing = false
		if m.ready {
			m.viewport.SetContent(m.renderConcepts())
			m.viewport.GotoBottom()
		}
		return m, nil

	case loadFailedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.state == StateLoaded {
			// Post-continue refresh failed: keep the loaded dream intact
			// and surface a transient error.
			m.continuing = false
			m.transientErr = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		if errors.Is(msg.err, api.ErrDreamNotFound) {
			m.state = StateNotFound
		} else {
			m.state = StateFailed
			m.failErr = msg.err
		}
		return m, nil

	case continuedMsg:
		if !m.continuing {
			return m, nil
		}
		if msg.err != nil {
			m.continuing = false
			m.transientErr = msg.err.Error()
			return m, nil
		}
		// Re-fetch the whole dream rather than appending locally, so the
		// view always matches server truth.
		m.gen++
		return m, m.load(m.gen)

	case linkCopiedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard copy failed", zap.Error(msg.err))
			return m, nil
		}
		m.copied = true
		m.copyGen++
		gen := m.copyGen
		return m, tea.Tick(copyNotice, func(time.Time) tea.Msg {
			return copyExpiredMsg{gen: gen}
		})

	case copyExpiredMsg:
		if msg.gen == m.copyGen {
			m.copied = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == StateLoading || m.continuing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case StateLoading:
		return m.spinner.View() + dimStyle.Render(" Loading dream "+m.dreamID+"...")
	case StateNotFound:
		return errorStyle.Render("Dream not found") + "\n" +
			dimStyle.Render("No dream exists with id "+m.dreamID+".") + "\n" +
			m.footer()
	case StateFailed:
		return errorStyle.Render("Failed to load dream") + "\n" +
			dimStyle.Render(m.failErr.Error()) + "\n" +
			m.footer()
	}

	header := titleStyle.Render("Dream "+shortID(m.dream.ID)) + "  " +
		dimStyle.Render(m.dream.CreatedAt.Format("Jan 2 2006 15:04")) + "  " +
		dimStyle.Render(fmt.Sprintf("%d concepts", len(m.dream.Concepts)))

	body := m.viewport.View()
	if !m.ready {
		body = m.renderConcepts()
	}

	return header + "\n\n" + body + "\n" + m.statusLine() + m.footer()
}

func (m Model) statusLine() string {
	switch {
	case m.continuing:
		return m.spinner.View() + dimStyle.Render(" Combining concepts...")
	case m.transientErr != "":
		return errorStyle.Render("✗ "+m.transientErr) + dimStyle.Render("  press c to retry")
	case m.copied:
		return noticeStyle.Render("✓ Share link copied")
	}
	return ""
}

func (m Model) footer() string {
	keys := footerKeyStyle.Render("[r]") + footerStyle.Render(" reload  ")
	if m.state == StateLoaded {
		cont := footerKeyStyle.Render("[c]") + footerStyle.Render(" continue  ")
		if !m.dream.CanContinue() {
			cont = dimStyle.Render("[c] continue (needs 2+ concepts)  ")
		}
		keys += cont + footerKeyStyle.Render("[y]") + footerStyle.Render(" copy link  ")
	}
	keys += footerKeyStyle.Render("[l]") + footerStyle.Render(" dreams  ") +
		footerKeyStyle.Render("[n]") + footerStyle.Render(" new  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit")
	return "\n" + keys
}

func (m Model) renderConcepts() string {
	if len(m.dream.Concepts) == 0 {
		return dimStyle.Render("This dream has no concepts.")
	}
	var out string
	for i, c := range m.dream.Concepts {
		out += renderConcept(i, c) + "\n"
	}
	return out
}

// renderConcept shows a seed badge for parentless concepts and a generated
// badge otherwise. A concept with a single parent is well outside the usual
// 0-or-2 shape but still renders as generated with one parent reference.
func renderConcept(idx int, c dream.Concept) string {
	badge := seedBadgeStyle.Render("seed")
	if !c.IsSeed() {
		badge = generatedBadgeStyle.Render("generated")
		switch c.ParentCount() {
		case 2:
			badge += dimStyle.Render(" ← " + shortID(c.Parent1ID) + " + " + shortID(c.Parent2ID))
		case 1:
			parent := c.Parent1ID
			if parent == "" {
				parent = c.Parent2ID
			}
			badge += dimStyle.Render(" ← " + shortID(parent))
		}
	}
	head := dimStyle.Render(fmt.Sprintf("%2d.", idx+1)) + " " + badge
	return head + "\n" + contentStyle.Render(c.Content) + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
