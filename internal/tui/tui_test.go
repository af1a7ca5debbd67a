package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/config"
	"github.com/oneirolab/reverie/internal/tui/browser"
	"github.com/oneirolab/reverie/internal/tui/compose"
)

func testModel(dreamID string) Model {
	cfg := config.Default()
	client := api.NewClient("http://localhost:8000", time.Second)
	return New(cfg, client, zap.NewNop(), dreamID)
}

func TestNew_StartsOnComposeWithoutDreamID(t *testing.T) {
	m := testModel("")
	assert.Equal(t, pageCompose, m.page)
	assert.False(t, m.hasSession)
}

func TestNew_OpensSessionWithDreamID(t *testing.T) {
	m := testModel("d-1")
	assert.Equal(t, pageSession, m.page)
	require.True(t, m.hasSession)
	assert.Equal(t, "d-1", m.session.DreamID())
}

func TestModel_DreamStartedSwitchesToSession(t *testing.T) {
	m := testModel("")
	updated, cmd := m.Update(compose.DreamStartedMsg{ID: "d-7"})
	got := updated.(Model)
	assert.Equal(t, pageSession, got.page)
	assert.Equal(t, "d-7", got.session.DreamID())
	assert.NotNil(t, cmd, "session load must be issued")
}

func TestModel_BrowserSelectionSwitchesToSession(t *testing.T) {
	m := testModel("")
	m.showBrowser = true

	updated, cmd := m.Update(browser.DreamSelectedMsg{ID: "d-3"})
	got := updated.(Model)
	assert.False(t, got.showBrowser)
	assert.Equal(t, pageSession, got.page)
	assert.Equal(t, "d-3", got.session.DreamID())
	assert.NotNil(t, cmd)
}

func TestModel_BrowserSelectionOfCurrentDreamKeepsSession(t *testing.T) {
	m := testModel("d-3")
	m.showBrowser = true

	updated, cmd := m.Update(browser.DreamSelectedMsg{ID: "d-3"})
	got := updated.(Model)
	assert.False(t, got.showBrowser)
	assert.Nil(t, cmd, "reselecting the open dream issues no reload")
}

func TestModel_BrowserCloseRestoresPage(t *testing.T) {
	m := testModel("")
	m.showBrowser = true

	updated, _ := m.Update(browser.CloseMsg{})
	assert.False(t, updated.(Model).showBrowser)
	assert.Equal(t, pageCompose, updated.(Model).page)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := testModel("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
