package engine

import "github.com/vovakirdan/tui-tanks/internal/core"

// ActorID is the registration index of an actor. It also fixes the
// processing order within a tick.
type ActorID int

// NoActor is the zero lookup result.
const NoActor ActorID = -1

// Mover is anything the MovementResolver can advance.
type Mover interface {
	Position() (x, y int)
	Facing() Dir
	Velocity() int
	// Shape returns the collision box for a facing, relative to the position.
	Shape(d Dir) core.Rect
	// Turn sets the facing. Movers with a fixed heading ignore it.
	Turn(d Dir)
	MoveTo(x, y int)
}

// walker is implemented by movers with a walk cycle.
type walker interface {
	advanceWalk()
}

// Actor is a tank. It exclusively owns at most one live projectile.
type Actor struct {
	ID    ActorID
	Kind  Kind
	X, Y  int
	Dir   Dir
	Speed int
	Walk  WalkCycle

	Projectile *Projectile
}

// Position returns the top-left pixel position.
func (a *Actor) Position() (int, int) { return a.X, a.Y }

// Facing returns the current direction.
func (a *Actor) Facing() Dir { return a.Dir }

// Velocity returns pixels moved per tick.
func (a *Actor) Velocity() int { return a.Speed }

// Shape returns the tank collision box.
func (a *Actor) Shape(d Dir) core.Rect { return CollisionRect(a.Kind, d) }

// Turn faces the tank in d. Turning in place is always legal.
func (a *Actor) Turn(d Dir) { a.Dir = d }

// MoveTo sets the position.
func (a *Actor) MoveTo(x, y int) { a.X, a.Y = x, y }

func (a *Actor) advanceWalk() { a.Walk.Advance() }

// Body returns the collision box in board coordinates.
func (a *Actor) Body() core.Rect {
	return a.Shape(a.Dir).Translate(a.X, a.Y)
}
