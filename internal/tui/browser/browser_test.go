package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/dream"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			if sub == nil {
				continue
			}
			m, _ = m.Update(sub())
		}
		return m
	}
	m, _ = m.Update(msg)
	return m
}

// listServer serves count summaries newest-first with offset pagination and
// records the offsets requested.
type listServer struct {
	*httptest.Server
	mu      sync.Mutex
	offsets []int
}

func newListServer(t *testing.T, count int) *listServer {
	t.Helper()
	ls := &listServer{}
	ls.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		ls.mu.Lock()
		ls.offsets = append(ls.offsets, offset)
		ls.mu.Unlock()

		end := min(offset+limit, count)
		dreams := make([]dream.Summary, 0, max(end-offset, 0))
		for i := offset; i < end; i++ {
			dreams = append(dreams, dream.Summary{
				ID:        fmt.Sprintf("d-%02d", i),
				CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				Label:     fmt.Sprintf("Dream %02d", i),
			})
		}
		json.NewEncoder(w).Encode(api.DreamPage{
			Dreams:     dreams,
			HasMore:    end < count,
			TotalCount: count,
		})
	}))
	t.Cleanup(ls.Close)
	return ls
}

func (ls *listServer) requestedOffsets() []int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return append([]int(nil), ls.offsets...)
}

func scrollToEnd(t *testing.T, m Model) Model {
	t.Helper()
	// More presses than items; surplus downs are no-ops.
	for i := 0; i < 60; i++ {
		var cmd tea.Cmd
		m, cmd = m.Update(keyMsg("j"))
		m = runCmd(t, m, cmd)
	}
	return m
}

func TestBrowser_PaginatesToExhaustion(t *testing.T) {
	server := newListServer(t, 45)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	m = runCmd(t, m, cmd)
	require.Len(t, m.Items(), 20)

	m = scrollToEnd(t, m)

	assert.Equal(t, []int{0, 20, 40}, server.requestedOffsets())
	require.Len(t, m.Items(), 45)
	assert.False(t, m.HasMore())

	// Server order preserved, no duplicates.
	seen := make(map[string]bool, 45)
	for i, s := range m.Items() {
		assert.Equal(t, fmt.Sprintf("d-%02d", i), s.ID)
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
	}

	// No further trigger once exhausted.
	m, cmd = m.Update(keyMsg("j"))
	assert.Nil(t, cmd)
	assert.Equal(t, []int{0, 20, 40}, server.requestedOffsets())
}

func TestBrowser_ReopenDoesNotRefetch(t *testing.T) {
	server := newListServer(t, 5)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)
	require.Len(t, m.Items(), 5)

	m, cmd = m.Open()
	assert.Nil(t, cmd)
	assert.Len(t, m.Items(), 5)
	assert.Equal(t, []int{0}, server.requestedOffsets())
}

func TestBrowser_FetchWhileLoadingSuppressed(t *testing.T) {
	m := New(api.NewClient("http://localhost:8000", time.Second), zap.NewNop(), 20)
	m.loading = true

	m, cmd := m.fetchPage(0)
	assert.Nil(t, cmd)
}

func TestBrowser_EmptyFirstPage(t *testing.T) {
	server := newListServer(t, 0)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)
	assert.Empty(t, m.Items())
	assert.False(t, m.HasMore())
	assert.Contains(t, m.View(), "No dreams yet")
}

func TestBrowser_FailedFetchKeepsAccumulatedItems(t *testing.T) {
	server := newListServer(t, 25)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)
	require.Len(t, m.Items(), 20)

	m, _ = m.Update(pageFailedMsg{offset: 20, err: errors.New("connection refused")})
	assert.Len(t, m.Items(), 20, "previously loaded pages survive a failed fetch")
	assert.False(t, m.Loading())
	assert.Contains(t, m.View(), "connection refused")
}

func TestBrowser_RetryAfterFailure(t *testing.T) {
	server := newListServer(t, 25)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)
	m, _ = m.Update(pageFailedMsg{offset: 20, err: errors.New("boom")})

	m, cmd = m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	m = runCmd(t, m, cmd)
	assert.Len(t, m.Items(), 25)
	assert.False(t, m.HasMore())
}

func TestBrowser_StalePageDropped(t *testing.T) {
	server := newListServer(t, 25)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)
	require.Len(t, m.Items(), 20)

	// A page result for an offset that no longer matches the accumulated
	// length must not be appended.
	m, _ = m.Update(pageMsg{offset: 0, page: api.DreamPage{
		Dreams: []dream.Summary{{ID: "dup"}}, HasMore: true, TotalCount: 25,
	}})
	assert.Len(t, m.Items(), 20)
}

func TestBrowser_SelectEmitsDreamID(t *testing.T) {
	server := newListServer(t, 3)
	m := New(api.NewClient(server.URL, time.Second), zap.NewNop(), 20)

	m, cmd := m.Open()
	m = runCmd(t, m, cmd)

	m, cmd = m.Update(keyMsg("j"))
	require.Nil(t, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	selected, ok := msg.(DreamSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "d-01", selected.ID)
}
