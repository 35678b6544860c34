package engine

import "github.com/vovakirdan/tui-tanks/internal/core"

// Projectile is a live shot. Owner is a lookup key into the world's actor
// list, used only to clear the owner's slot on despawn.
type Projectile struct {
	Owner ActorID
	X, Y  int
	Dir   Dir
	Speed int
}

// Position returns the top-left pixel position.
func (p *Projectile) Position() (int, int) { return p.X, p.Y }

// Facing returns the heading fixed at spawn.
func (p *Projectile) Facing() Dir { return p.Dir }

// Velocity returns pixels moved per tick.
func (p *Projectile) Velocity() int { return p.Speed }

// Shape returns the projectile collision box for a heading.
func (p *Projectile) Shape(d Dir) core.Rect { return CollisionRect(KindProjectile, d) }

// Turn is a no-op: the heading is immutable.
func (p *Projectile) Turn(Dir) {}

// MoveTo sets the position.
func (p *Projectile) MoveTo(x, y int) { p.X, p.Y = x, y }

// Body returns the collision box in board coordinates.
func (p *Projectile) Body() core.Rect {
	return p.Shape(p.Dir).Translate(p.X, p.Y)
}
