package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/engine"
	"github.com/vovakirdan/tui-tanks/internal/replay"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// chromeRows is the number of screen rows below the board frame.
const chromeRows = 2

// Options configures a play or watch model.
type Options struct {
	Config config.TanksConfig
	Store  *storage.Store // nil disables replay saving
	Logger *log.Logger
	Seed   int64
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Model is the Bubble Tea model for a running board, either driven by the
// keyboard or replaying a recording.
type Model struct {
	session   *scenario.Session
	renderer  *BoardRenderer
	screen    *core.Screen
	keyMapper *KeyMapper
	help      help.Model
	store     *storage.Store
	logger    *log.Logger
	tickRate  int

	recording *replay.Recording // set while playing
	watchEnd  uint64            // last tick to show while watching, 0 when playing

	lastEvent  string
	err        error
	paused     bool
	saved      bool
	width      int
	height     int
	quitting   bool
	backToMenu bool
	exitOnBack bool // no menu to return to
}

// NewPlayModel builds a scenario for keyboard play with recording enabled.
func NewPlayModel(s scenario.Scenario, opts Options) (Model, error) {
	cfg := opts.Config
	logger := opts.logger().With("scenario", s.ID)
	bc := scenario.BuildConfig{
		Engine:       cfg.ToEngine(),
		KeyHoldTicks: cfg.Runtime.KeyHoldTicks,
		WorldOptions: []engine.Option{engine.WithLogger(logger)},
	}
	sess, rec, err := replay.Start(s, bc, cfg.Runtime.TickRate, opts.Seed)
	if err != nil {
		return Model{}, err
	}

	m := newModel(sess, opts, logger)
	m.recording = rec
	return m, nil
}

// NewWatchModel rebuilds a recording's scenario and replays it.
func NewWatchModel(rec *replay.Recording, opts Options) (Model, error) {
	sess, err := replay.Session(rec)
	if err != nil {
		return Model{}, err
	}

	m := newModel(sess, opts, opts.logger().With("replay", rec.ID))
	if rec.TickRate > 0 {
		m.tickRate = rec.TickRate
	}
	m.watchEnd = rec.Ticks
	return m, nil
}

func newModel(sess *scenario.Session, opts Options, logger *log.Logger) Model {
	renderer := NewBoardRenderer(sess.World.Terrain())
	w, h := renderer.CellSize()

	return Model{
		session:   sess,
		renderer:  renderer,
		screen:    core.NewScreen(w+2, h+2+chromeRows),
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		store:     opts.Store,
		logger:    logger,
		tickRate:  opts.Config.Runtime.TickRate,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Quit):
		m.saveRecording()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		m.saveRecording()
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, keys.Step):
		if m.paused {
			m.step()
		}
		return m, nil

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.Watching() {
		return m, nil
	}
	if action, ok := m.keyMapper.MapKey(msg); ok {
		if kb := m.session.Keyboards[m.session.Player]; kb != nil {
			kb.Press(action)
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if !m.paused && !m.Finished() {
		m.step()
	}
	return m, tickCmd(m.tickRate)
}

// step advances the world one tick and refreshes the terrain cache.
func (m *Model) step() {
	if m.err != nil || m.Finished() {
		return
	}

	res, err := m.session.World.Tick()
	if err != nil {
		m.err = err
		m.logger.Error("simulation stopped", "tick", m.session.World.TickCount(), "error", err)
		return
	}

	m.renderer.Invalidate(m.session.World.Terrain(), res.Dirty)
	for _, ev := range res.Events {
		switch ev.Kind {
		case engine.EventTerrainHit, engine.EventActorHit, engine.EventProjectileExpired:
			m.lastEvent = fmt.Sprintf("t%d %s at (%d,%d)", res.Tick, ev.Kind, ev.X, ev.Y)
			m.logger.Debug("event", "tick", res.Tick, "kind", ev.Kind, "actor", ev.Actor, "x", ev.X, "y", ev.Y)
		}
	}
}

// saveRecording stores the session's recording once.
func (m *Model) saveRecording() {
	if m.recording == nil || m.saved || m.store == nil {
		return
	}
	m.saved = true
	if m.session.World.TickCount() == 0 {
		return
	}

	m.recording.Finish(m.session.World)
	if err := m.store.SaveReplay(m.recording); err != nil {
		m.logger.Warn("could not save replay", "error", err)
		return
	}
	m.logger.Info("replay saved", "id", m.recording.ID, "ticks", m.recording.Ticks)
}

// Watching reports whether the model replays a recording.
func (m Model) Watching() bool {
	return m.watchEnd > 0
}

// Finished reports whether a watched replay has reached its last tick.
func (m Model) Finished() bool {
	return m.Watching() && m.session.World.TickCount() >= m.watchEnd
}

// World returns the simulated world.
func (m Model) World() *engine.World {
	return m.session.World
}

// Recording returns the live recording, or nil while watching.
func (m Model) Recording() *replay.Recording {
	return m.recording
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	bw, bh := m.renderer.CellSize()
	if m.width > 0 && (m.width < bw+2 || m.height < bh+2+chromeRows) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", bw+2, bh+2+chromeRows+1, m.width, m.height)
	}

	m.screen.Clear()
	m.screen.DrawBox(core.NewRect(0, 0, bw+2, bh+2), core.ColorGray)
	m.renderer.Draw(m.screen, 1, 1, m.session.World.View())
	m.screen.DrawText(1, bh+2, m.status(), core.ColorWhite)
	m.screen.DrawText(1, bh+3, m.lastEvent, core.ColorGray)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Keys())))
	return b.String()
}

func (m Model) status() string {
	w := m.session.World
	state := "playing"
	switch {
	case m.err != nil:
		state = "stopped: " + m.err.Error()
	case m.Finished():
		state = "replay finished"
	case m.paused:
		state = "paused"
	case m.Watching():
		state = fmt.Sprintf("replay %d/%d", w.TickCount(), m.watchEnd)
	}
	elapsed := time.Duration(w.TickCount()) * time.Second / time.Duration(max(m.tickRate, 1))
	return fmt.Sprintf("%s  t%d %s  %s", m.session.Scenario.Name, w.TickCount(), elapsed.Truncate(time.Second/10), state)
}

// Run starts the Bubble Tea program with the given model.
func Run(m Model) (Model, error) {
	m.exitOnBack = true
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return m, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return m, nil
}
