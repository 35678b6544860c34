package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

const keyboardScenario = `
id: yard
name: Yard
layout:
  - ".........................."
  - "..........####............"
actors:
  - x: 80
    y: 100
    driver: keyboard
  - kind: quick
    x: 160
    y: 160
    driver: dummy
`

func setup(t *testing.T) (scenario.Scenario, Options) {
	t.Helper()
	s, err := scenario.Parse([]byte(keyboardScenario))
	require.NoError(t, err)

	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return s, Options{Config: config.DefaultTanksConfig(), Store: store}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func tick(t *testing.T, m Model, n int) Model {
	t.Helper()
	for range n {
		m = update(t, m, TickMsg(time.Time{}))
	}
	return m
}

func TestPlayModelDrivesKeyboardTank(t *testing.T) {
	s, opts := setup(t)
	m, err := NewPlayModel(s, opts)
	require.NoError(t, err)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = tick(t, m, 3)

	player, err := m.World().Actor(0)
	require.NoError(t, err)
	assert.Equal(t, 97, player.Y)
	assert.Equal(t, uint64(3), m.World().TickCount())
	assert.NoError(t, m.Err())
}

func TestPlayModelPauseAndStep(t *testing.T) {
	s, opts := setup(t)
	m, err := NewPlayModel(s, opts)
	require.NoError(t, err)

	m = update(t, m, runes("p"))
	m = tick(t, m, 5)
	assert.Equal(t, uint64(0), m.World().TickCount())

	m = update(t, m, runes("."))
	assert.Equal(t, uint64(1), m.World().TickCount())

	m = update(t, m, runes("p"))
	m = tick(t, m, 2)
	assert.Equal(t, uint64(3), m.World().TickCount())
}

func TestPlayModelSavesReplayAndWatches(t *testing.T) {
	s, opts := setup(t)
	m, err := NewPlayModel(s, opts)
	require.NoError(t, err)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = tick(t, m, 10)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = tick(t, m, 30)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
	assert.False(t, m.IsQuitting())

	entries, err := opts.Store.RecentReplays("yard", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(40), entries[0].Ticks)
	assert.Equal(t, m.World().Digest(), entries[0].Digest)

	rec, err := opts.Store.LoadReplay(entries[0].ID)
	require.NoError(t, err)

	w, err := NewWatchModel(rec, opts)
	require.NoError(t, err)
	assert.True(t, w.Watching())

	// keys do not steer a replay
	w = update(t, w, tea.KeyMsg{Type: tea.KeyDown})
	w = tick(t, w, 60)
	assert.True(t, w.Finished())
	assert.Equal(t, uint64(40), w.World().TickCount())
	assert.Equal(t, rec.FinalDigest, w.World().Digest())
}

func TestPlayModelQuitWithoutTicksSavesNothing(t *testing.T) {
	s, opts := setup(t)
	m, err := NewPlayModel(s, opts)
	require.NoError(t, err)

	m = update(t, m, runes("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())

	entries, err := opts.Store.RecentReplays("", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlayModelView(t *testing.T) {
	s, opts := setup(t)
	m, err := NewPlayModel(s, opts)
	require.NoError(t, err)

	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Contains(t, m.View(), "Terminal too small")

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	m = tick(t, m, 2)
	view := m.View()
	assert.Contains(t, view, "Yard")
	assert.Contains(t, view, "t2")
}
