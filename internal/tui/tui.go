// Package tui wires the reverie components into one program: the new-dream
// form, the single-dream session view, and the dream browser overlay.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/config"
	"github.com/oneirolab/reverie/internal/tui/browser"
	"github.com/oneirolab/reverie/internal/tui/compose"
	"github.com/oneirolab/reverie/internal/tui/session"
)

type page int

const (
	pageCompose page = iota
	pageSession
)

// Model is the top-level program model. Components own their state
// independently; this model only routes messages and switches pages.
type Model struct {
	client *api.Client
	log    *zap.Logger

	page       page
	compose    compose.Model
	session    session.Model
	hasSession bool

	browser     browser.Model
	showBrowser bool

	width  int
	height int
}

// New creates the program model. With a dreamID the program opens straight
// into that dream's session; otherwise it starts on the new-dream form.
func New(cfg *config.Config, client *api.Client, log *zap.Logger, dreamID string) Model {
	m := Model{
		client:  client,
		log:     log,
		compose: compose.New(client, log),
		browser: browser.New(client, log, cfg.List.PageSize),
	}
	if dreamID != "" {
		m.session = session.New(client, log, dreamID)
		m.hasSession = true
		m.page = pageSession
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.page == pageSession {
		return m.session.Init()
	}
	return m.compose.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.hasSession {
			m.session, _ = m.session.Update(msg)
		}
		return m, nil

	case compose.DreamStartedMsg:
		return m.openSession(msg.ID)

	case browser.DreamSelectedMsg:
		m.showBrowser = false
		if m.hasSession && m.session.DreamID() == msg.ID {
			m.page = pageSession
			return m, nil
		}
		return m.openSession(msg.ID)

	case browser.CloseMsg:
		m.showBrowser = false
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showBrowser {
			var cmd tea.Cmd
			m.browser, cmd = m.browser.Update(msg)
			return m, cmd
		}
		switch m.page {
		case pageSession:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "l":
				return m.openBrowser()
			case "n":
				m.page = pageCompose
				m.compose = compose.New(m.client, m.log)
				return m, m.compose.Init()
			default:
				var cmd tea.Cmd
				m.session, cmd = m.session.Update(msg)
				return m, cmd
			}
		default:
			if msg.String() == "esc" {
				return m.openBrowser()
			}
			var cmd tea.Cmd
			m.compose, cmd = m.compose.Update(msg)
			return m, cmd
		}
	}

	// Everything else (fetch results, spinner ticks, copy expiry) is
	// routed to every live component; each one ignores messages that are
	// not its own.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	cmds = append(cmds, cmd)
	m.browser, cmd = m.browser.Update(msg)
	cmds = append(cmds, cmd)
	if m.hasSession {
		m.session, cmd = m.session.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) openSession(dreamID string) (tea.Model, tea.Cmd) {
	m.session = session.New(m.client, m.log, dreamID)
	m.hasSession = true
	m.page = pageSession
	if m.width > 0 {
		m.session, _ = m.session.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m, m.session.Init()
}

func (m Model) openBrowser() (tea.Model, tea.Cmd) {
	m.showBrowser = true
	var cmd tea.Cmd
	m.browser, cmd = m.browser.Open()
	return m, cmd
}

func (m Model) View() string {
	if m.showBrowser {
		if m.width > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.browser.View())
		}
		return m.browser.View()
	}
	if m.page == pageSession {
		return m.session.View()
	}
	return m.compose.View()
}

// Run starts the program in the alternate screen.
func Run(cfg *config.Config, client *api.Client, log *zap.Logger, dreamID string) error {
	p := tea.NewProgram(New(cfg, client, log, dreamID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
