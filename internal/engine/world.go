package engine

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// ActionSource yields an actor's intent for the coming tick.
// It receives a read-only view of the world before the tick.
type ActionSource interface {
	Action(view View, id ActorID) Action
}

// ActionSourceFunc adapts a function to ActionSource.
type ActionSourceFunc func(view View, id ActorID) Action

// Action calls f.
func (f ActionSourceFunc) Action(view View, id ActorID) Action { return f(view, id) }

// ActionLog receives every tick's chosen actions, indexed by ActorID.
type ActionLog interface {
	Record(tick uint64, actions []Action)
}

// HitHandler is notified when a projectile strikes an actor.
type HitHandler interface {
	ProjectileHitActor(shooter, target ActorID)
}

// NopHitHandler ignores hits. Struck actors are unaffected.
type NopHitHandler struct{}

// ProjectileHitActor does nothing.
func (NopHitHandler) ProjectileHitActor(ActorID, ActorID) {}

// EventKind identifies a tick event.
type EventKind uint8

const (
	EventFired EventKind = iota
	EventFireIgnored
	EventBlocked
	EventProjectileExpired
	EventTerrainHit
	EventActorHit
	EventEffectFinished
)

// String returns the string representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventFired:
		return "fired"
	case EventFireIgnored:
		return "fire-ignored"
	case EventBlocked:
		return "blocked"
	case EventProjectileExpired:
		return "expired"
	case EventTerrainHit:
		return "terrain-hit"
	case EventActorHit:
		return "actor-hit"
	case EventEffectFinished:
		return "effect-finished"
	default:
		return "unknown"
	}
}

// Event records something notable that happened during a tick.
type Event struct {
	Kind   EventKind
	Actor  ActorID
	Target ActorID
	X, Y   int
}

// ActorView is the renderer-facing state of an actor.
type ActorView struct {
	ID            ActorID
	Kind          Kind
	X, Y          int
	Dir           Dir
	Frame         WalkFrame
	HasProjectile bool
}

// Body returns the collision box in board coordinates.
func (v ActorView) Body() core.Rect {
	return CollisionRect(v.Kind, v.Dir).Translate(v.X, v.Y)
}

// ProjectileView is the renderer-facing state of a live projectile.
type ProjectileView struct {
	Owner ActorID
	X, Y  int
	Dir   Dir
}

// Body returns the collision box in board coordinates.
func (v ProjectileView) Body() core.Rect {
	return CollisionRect(KindProjectile, v.Dir).Translate(v.X, v.Y)
}

// EffectView is the renderer-facing state of an effect.
type EffectView struct {
	Kind  EffectKind
	X, Y  int
	Frame int
}

// View is a read-only snapshot handed to action sources and renderers.
// Terrain is live but exposes no writes.
type View struct {
	Tick        uint64
	BoardSize   int
	Terrain     Terrain
	Actors      []ActorView
	Projectiles []ProjectileView
	Effects     []EffectView
}

// TickResult is what one tick produced, for the renderer sink.
type TickResult struct {
	Tick        uint64
	Actors      []ActorView
	Projectiles []ProjectileView
	Effects     []EffectView
	Dirty       []core.Rect
	Events      []Event
}

// ActorSpec describes an actor to register.
type ActorSpec struct {
	Kind Kind
	X, Y int
	Dir  Dir
}

// Option configures a World.
type Option func(*World)

// WithHitHandler installs a handler for projectile-actor hits.
func WithHitHandler(h HitHandler) Option {
	return func(w *World) { w.hits = h }
}

// WithActionLog records every tick's actions.
func WithActionLog(l ActionLog) Option {
	return func(w *World) { w.actionLog = l }
}

// WithLogger sets the debug logger. A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// World drives the tick loop. It is not safe for concurrent use.
type World struct {
	cfg   Config
	board core.Rect
	tiles *TileMap

	actors  []*Actor
	sources []ActionSource
	effects []*Effect

	moves      *MovementResolver
	collisions *CollisionResolver

	hits      HitHandler
	actionLog ActionLog
	logger    *log.Logger

	tick uint64
	err  error
}

// NewWorld creates a world over tiles. The map side must match cfg.MapSize.
func NewWorld(cfg Config, tiles *TileMap, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tiles == nil {
		tiles = NewTileMap(cfg.MapSize())
	}
	if tiles.Size() != cfg.MapSize() {
		return nil, fmt.Errorf("%w: tile map side %d, expected %d", ErrInvalidConfig, tiles.Size(), cfg.MapSize())
	}

	w := &World{
		cfg:    cfg,
		board:  core.NewRect(0, 0, cfg.BoardSize(), cfg.BoardSize()),
		tiles:  tiles,
		hits:   NopHitHandler{},
		logger: log.New(io.Discard),
	}
	w.moves = NewMovementResolver(tiles, cfg.BoardSize())
	w.collisions = NewCollisionResolver(tiles, w.actor)

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Config returns the world's configuration.
func (w *World) Config() Config { return w.cfg }

// Terrain returns read-only access to the tile map.
func (w *World) Terrain() Terrain { return w.tiles }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 { return w.tick }

// Err returns the error that stopped the world, if any.
func (w *World) Err() error { return w.err }

// ActorCount returns the number of registered actors.
func (w *World) ActorCount() int { return len(w.actors) }

// AddActor registers a tank. Registration order is processing order.
func (w *World) AddActor(spec ActorSpec) (ActorID, error) {
	if !spec.Kind.IsTank() {
		return NoActor, fmt.Errorf("add actor: kind %s is not a tank", spec.Kind)
	}
	if !spec.Dir.Valid() {
		return NoActor, fmt.Errorf("add actor: invalid direction %d", spec.Dir)
	}

	a := &Actor{
		ID:    ActorID(len(w.actors)),
		Kind:  spec.Kind,
		X:     spec.X,
		Y:     spec.Y,
		Dir:   spec.Dir,
		Speed: w.cfg.SpeedFor(spec.Kind),
		Walk:  NewWalkCycle(w.cfg.WalkCycleTicks),
	}
	body := a.Body()
	if !body.Within(w.board) {
		return NoActor, fmt.Errorf("add actor at %v: %w", body, ErrOutOfBounds)
	}
	free, err := w.tiles.RegionIsClear(body)
	if err != nil {
		return NoActor, fmt.Errorf("add actor: %w", err)
	}
	if !free {
		return NoActor, fmt.Errorf("add actor at %v: %w", body, ErrSpawnBlocked)
	}

	w.actors = append(w.actors, a)
	w.sources = append(w.sources, nil)
	return a.ID, nil
}

// SetSource installs the action source of an actor. A nil source idles.
func (w *World) SetSource(id ActorID, src ActionSource) error {
	if _, err := w.actor(id); err != nil {
		return fmt.Errorf("set source: %w", err)
	}
	w.sources[id] = src
	return nil
}

func (w *World) actor(id ActorID) (*Actor, error) {
	if id < 0 || int(id) >= len(w.actors) {
		return nil, fmt.Errorf("actor %d: %w", id, ErrUnknownActor)
	}
	return w.actors[id], nil
}

// Actor returns the current view of one actor.
func (w *World) Actor(id ActorID) (ActorView, error) {
	a, err := w.actor(id)
	if err != nil {
		return ActorView{}, err
	}
	return actorView(a), nil
}

// Tick advances the simulation by one tick.
//
// Phases:
//  1. Every actor, in registration order, applies its source's action
//  2. Every live projectile, in owner order, moves or collides
//     (projectiles fired in phase 1 move this same tick)
//  3. Effects advance; finished effects are removed
//
// An error means a contract violation. The world stops and returns the
// same error from every later call.
func (w *World) Tick() (TickResult, error) {
	if w.err != nil {
		return TickResult{}, w.err
	}

	view := w.View()
	w.tick++
	res := TickResult{Tick: w.tick}

	actions := make([]Action, len(w.actors))
	for i, a := range w.actors {
		if src := w.sources[i]; src != nil {
			actions[i] = src.Action(view, a.ID)
		}
	}
	if w.actionLog != nil {
		w.actionLog.Record(w.tick, actions)
	}

	for i, a := range w.actors {
		if err := w.apply(a, actions[i], &res); err != nil {
			return w.fail(err)
		}
	}

	var spawned []*Effect
	for _, a := range w.actors {
		if a.Projectile == nil {
			continue
		}
		eff, err := w.advanceProjectile(a.Projectile, &res)
		if err != nil {
			return w.fail(err)
		}
		if eff != nil {
			spawned = append(spawned, eff)
		}
	}

	live := w.effects[:0]
	for _, e := range w.effects {
		e.Step()
		if e.Finished() {
			res.Events = append(res.Events, Event{Kind: EventEffectFinished, Actor: NoActor, Target: NoActor, X: e.X, Y: e.Y})
			continue
		}
		live = append(live, e)
	}
	w.effects = append(live, spawned...)

	res.Actors = w.actorViews()
	res.Projectiles = w.projectileViews()
	res.Effects = w.effectViews()
	return res, nil
}

func (w *World) fail(err error) (TickResult, error) {
	w.err = fmt.Errorf("tick %d: %w", w.tick, err)
	return TickResult{}, w.err
}

func (w *World) apply(a *Actor, act Action, res *TickResult) error {
	if dir, ok := act.Direction(); ok {
		out, err := w.moves.Resolve(a, dir)
		if err != nil {
			return fmt.Errorf("actor %d: %w", a.ID, err)
		}
		if !out.Moved {
			res.Events = append(res.Events, Event{Kind: EventBlocked, Actor: a.ID, Target: NoActor, X: a.X, Y: a.Y})
		}
		return nil
	}

	if act != ActionShoot {
		return nil
	}
	if a.Projectile != nil {
		res.Events = append(res.Events, Event{Kind: EventFireIgnored, Actor: a.ID, Target: NoActor, X: a.X, Y: a.Y})
		return nil
	}

	x, y := projectileSpawn(a.X, a.Y, a.Dir)
	a.Projectile = &Projectile{
		Owner: a.ID,
		X:     x,
		Y:     y,
		Dir:   a.Dir,
		Speed: w.cfg.ProjectileSpeed(a.Kind),
	}
	res.Events = append(res.Events, Event{Kind: EventFired, Actor: a.ID, Target: NoActor, X: x, Y: y})
	w.logger.Debug("projectile fired", "tick", w.tick, "actor", a.ID, "x", x, "y", y, "dir", a.Dir)
	return nil
}

// advanceProjectile moves one projectile and resolves whatever stops it.
// It returns the impact effect, if any.
func (w *World) advanceProjectile(p *Projectile, res *TickResult) (*Effect, error) {
	cand := w.moves.Candidate(p)
	if cand.Within(w.board) {
		if target := w.actorAt(cand, p.Owner); target != NoActor {
			imp, err := w.collisions.ResolveHit(p, target)
			if err != nil {
				return nil, err
			}
			w.hits.ProjectileHitActor(imp.Owner, imp.Target)
			res.Events = append(res.Events, Event{Kind: EventActorHit, Actor: imp.Owner, Target: imp.Target, X: p.X, Y: p.Y})
			w.logger.Debug("projectile hit actor", "tick", w.tick, "shooter", imp.Owner, "target", imp.Target)
			return w.explosion(p), nil
		}
	}

	out, err := w.moves.Resolve(p, p.Dir)
	if err != nil {
		return nil, fmt.Errorf("projectile of actor %d: %w", p.Owner, err)
	}
	if out.Moved {
		return nil, nil
	}

	imp, err := w.collisions.Resolve(p, out)
	if err != nil {
		return nil, err
	}
	if imp.Kind == ImpactEdge {
		res.Events = append(res.Events, Event{Kind: EventProjectileExpired, Actor: imp.Owner, Target: NoActor, X: p.X, Y: p.Y})
		return nil, nil
	}

	if !imp.Dirty.IsEmpty() {
		res.Dirty = append(res.Dirty, imp.Dirty)
	}
	res.Events = append(res.Events, Event{Kind: EventTerrainHit, Actor: imp.Owner, Target: NoActor, X: p.X, Y: p.Y})
	w.logger.Debug("projectile hit terrain", "tick", w.tick, "actor", imp.Owner, "erased", len(imp.Erased), "dirty", imp.Dirty)
	return w.explosion(p), nil
}

func (w *World) explosion(p *Projectile) *Effect {
	return NewEffect(EffectExplosion, p.X, p.Y, w.cfg.ExplosionFrames, w.cfg.EffectFrameDelay)
}

// actorAt returns the first actor other than exclude whose box overlaps r.
func (w *World) actorAt(r core.Rect, exclude ActorID) ActorID {
	for _, a := range w.actors {
		if a.ID != exclude && a.Body().Intersects(r) {
			return a.ID
		}
	}
	return NoActor
}

// View returns a read-only snapshot of the current state.
func (w *World) View() View {
	return View{
		Tick:        w.tick,
		BoardSize:   w.cfg.BoardSize(),
		Terrain:     w.tiles,
		Actors:      w.actorViews(),
		Projectiles: w.projectileViews(),
		Effects:     w.effectViews(),
	}
}

func actorView(a *Actor) ActorView {
	return ActorView{
		ID:            a.ID,
		Kind:          a.Kind,
		X:             a.X,
		Y:             a.Y,
		Dir:           a.Dir,
		Frame:         a.Walk.Frame,
		HasProjectile: a.Projectile != nil,
	}
}

func (w *World) actorViews() []ActorView {
	views := make([]ActorView, len(w.actors))
	for i, a := range w.actors {
		views[i] = actorView(a)
	}
	return views
}

func (w *World) projectileViews() []ProjectileView {
	views := make([]ProjectileView, 0, len(w.actors))
	for _, a := range w.actors {
		if p := a.Projectile; p != nil {
			views = append(views, ProjectileView{Owner: p.Owner, X: p.X, Y: p.Y, Dir: p.Dir})
		}
	}
	return views
}

func (w *World) effectViews() []EffectView {
	views := make([]EffectView, len(w.effects))
	for i, e := range w.effects {
		views[i] = EffectView{Kind: e.Kind, X: e.X, Y: e.Y, Frame: e.Frame()}
	}
	return views
}

// Digest returns a hash of the tick count, terrain, actors, projectiles
// and effects. Equal digests mean equal simulations.
func (w *World) Digest() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = binary.LittleEndian.AppendUint64(buf, w.tick)
	_, _ = h.Write(buf)
	_, _ = h.Write(w.tiles.bytes())

	for _, a := range w.actors {
		buf = buf[:0]
		buf = appendInts(buf, int(a.ID), int(a.Kind), a.X, a.Y, int(a.Dir), a.Speed, int(a.Walk.Frame), a.Walk.Counter())
		if p := a.Projectile; p != nil {
			buf = appendInts(buf, 1, p.X, p.Y, int(p.Dir), p.Speed)
		} else {
			buf = appendInts(buf, 0)
		}
		_, _ = h.Write(buf)
	}
	for _, e := range w.effects {
		buf = buf[:0]
		buf = appendInts(buf, int(e.Kind), e.X, e.Y, e.frame, e.elapsed)
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

func appendInts(buf []byte, vals ...int) []byte {
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(v)))
	}
	return buf
}
