package engine

import "github.com/vovakirdan/tui-tanks/internal/core"

var tankRect = core.NewRect(0, 0, TankSize, TankSize)

// projectileRects is indexed by direction. All four are the same box today;
// the table keeps per-direction shapes possible.
var projectileRects = [...]core.Rect{
	DirUp:    core.NewRect(0, 0, ProjectileSize, ProjectileSize),
	DirLeft:  core.NewRect(0, 0, ProjectileSize, ProjectileSize),
	DirDown:  core.NewRect(0, 0, ProjectileSize, ProjectileSize),
	DirRight: core.NewRect(0, 0, ProjectileSize, ProjectileSize),
}

// CollisionRect returns the collision box of kind k facing d, relative to
// the mover's top-left position.
func CollisionRect(k Kind, d Dir) core.Rect {
	if k == KindProjectile && d.Valid() {
		return projectileRects[d]
	}
	return tankRect
}

// projectileSpawn returns where a tank at (x, y) facing d places its
// projectile: centred on the leading edge, inside the tank's own box.
func projectileSpawn(x, y int, d Dir) (int, int) {
	const mid = (TankSize - ProjectileSize) / 2
	const far = TankSize - ProjectileSize
	switch d {
	case DirUp:
		return x + mid, y
	case DirDown:
		return x + mid, y + far
	case DirLeft:
		return x, y + mid
	default:
		return x + far, y + mid
	}
}
