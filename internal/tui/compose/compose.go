// Package compose implements the new-dream flow: two generated seed
// concepts are fetched for editing, then submitted to start a dream.
package compose

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// DreamStartedMsg is emitted once the backend has created the dream.
type DreamStartedMsg struct {
	ID string
}

type (
	seedsMsg struct {
		concepts []string
	}

	seedsFailedMsg struct {
		err error
	}

	startFailedMsg struct {
		err error
	}
)

// Model is the new-dream form.
type Model struct {
	client *api.Client
	log    *zap.Logger

	inputs  [2]textinput.Model
	focus   int
	seeding bool // fetching generated seeds
	// starting is the single-flight guard on the start request.
	starting bool
	errMsg   string

	spinner spinner.Model
}

// New creates the form. Init fetches two generated seed concepts; until
// they arrive the inputs stay empty and editable.
func New(client *api.Client, log *zap.Logger) Model {
	var inputs [2]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "a concept"
		ti.CharLimit = 200
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[0].Focus()
	return Model{
		client:  client,
		log:     log,
		inputs:  inputs,
		seeding: true,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.fetchSeeds())
}

func (m Model) fetchSeeds() tea.Cmd {
	client, log := m.client, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		concepts, err := client.NewConcepts(ctx)
		if err != nil {
			log.Warn("seed concept fetch failed", zap.Error(err))
			return seedsFailedMsg{err: err}
		}
		return seedsMsg{concepts: concepts}
	}
}

func (m Model) startDream() tea.Cmd {
	client, log := m.client, m.log
	c1 := strings.TrimSpace(m.inputs[0].Value())
	c2 := strings.TrimSpace(m.inputs[1].Value())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		id, err := client.StartDream(ctx, c1, c2)
		if err != nil {
			log.Warn("dream start failed", zap.Error(err))
			return startFailedMsg{err: err}
		}
		return DreamStartedMsg{ID: id}
	}
}

// Starting reports whether a start request is in flight.
func (m Model) Starting() bool { return m.starting }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.starting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()
		case "enter":
			// Client-side precondition: both seeds non-empty. Blocks the
			// request before any network call.
			if strings.TrimSpace(m.inputs[0].Value()) == "" ||
				strings.TrimSpace(m.inputs[1].Value()) == "" {
				m.errMsg = "both concepts are required"
				return m, nil
			}
			m.starting = true
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, m.startDream())
		case "ctrl+g":
			// Regenerate seeds, replacing whatever is typed.
			if m.seeding {
				return m, nil
			}
			m.seeding = true
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, m.fetchSeeds())
		default:
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}

	case seedsMsg:
		m.seeding = false
		for i, content := range msg.concepts {
			if i >= len(m.inputs) {
				break
			}
			m.inputs[i].SetValue(content)
		}
		return m, nil

	case seedsFailedMsg:
		// The form still works without generated seeds; the user can type
		// their own concepts.
		m.seeding = false
		m.errMsg = "could not generate seeds: " + msg.err.Error()
		return m, nil

	case startFailedMsg:
		m.starting = false
		m.errMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.seeding || m.starting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Start a dream") + "\n\n")

	if m.seeding {
		b.WriteString(m.spinner.View() + dimStyle.Render(" Generating seed concepts...") + "\n\n")
	}

	b.WriteString(labelStyle.Render("First concept") + "\n")
	b.WriteString(m.inputs[0].View() + "\n\n")
	b.WriteString(labelStyle.Render("Second concept") + "\n")
	b.WriteString(m.inputs[1].View() + "\n\n")

	switch {
	case m.starting:
		b.WriteString(m.spinner.View() + dimStyle.Render(" Starting dream...") + "\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render("✗ "+m.errMsg) + "\n")
	}

	b.WriteString("\n" +
		footerKeyStyle.Render("[enter]") + dimStyle.Render(" start  ") +
		footerKeyStyle.Render("[tab]") + dimStyle.Render(" switch field  ") +
		footerKeyStyle.Render("[ctrl+g]") + dimStyle.Render(" regenerate  ") +
		footerKeyStyle.Render("[esc]") + dimStyle.Render(" dreams  ") +
		footerKeyStyle.Render("[ctrl+c]") + dimStyle.Render(" quit"))
	return b.String()
}
