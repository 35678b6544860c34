// Package engine provides the deterministic tank simulation: destructible
// terrain, movement resolution, projectile collision and animation counters.
// This package is UI-agnostic; the same actions against the same terrain
// always produce the same world.
package engine

import "fmt"

// Dir is a cardinal facing. The order matches the sprite sheet.
type Dir uint8

const (
	DirUp Dir = iota
	DirLeft
	DirDown
	DirRight
)

// AllDirs lists the directions in sprite-sheet order.
var AllDirs = [...]Dir{DirUp, DirLeft, DirDown, DirRight}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Dir) Valid() bool {
	return d <= DirRight
}

// Delta returns the (dx, dy) offset for moving one pixel in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirDown:
		return 0, 1
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Horizontal reports whether travel in this direction changes X.
func (d Dir) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// ParseDir converts a direction name to a Dir.
func ParseDir(s string) (Dir, error) {
	for _, d := range AllDirs {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Action is the single intent an actor issues per tick.
type Action uint8

const (
	ActionNothing Action = iota
	ActionShoot
	ActionMoveUp
	ActionMoveLeft
	ActionMoveDown
	ActionMoveRight
)

var actionNames = [...]string{
	ActionNothing:   "nothing",
	ActionShoot:     "shoot",
	ActionMoveUp:    "up",
	ActionMoveLeft:  "left",
	ActionMoveDown:  "down",
	ActionMoveRight: "right",
}

// String returns the short name used in scripts and replays.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Direction returns the direction of a move action.
// The second value is false for non-move actions.
func (a Action) Direction() (Dir, bool) {
	switch a {
	case ActionMoveUp:
		return DirUp, true
	case ActionMoveLeft:
		return DirLeft, true
	case ActionMoveDown:
		return DirDown, true
	case ActionMoveRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// MoveAction returns the move action for a direction.
func MoveAction(d Dir) Action {
	return ActionMoveUp + Action(d)
}

// ParseAction converts a script token to an Action.
// Accepts the short names plus "." for nothing and "fire" for shoot.
func ParseAction(s string) (Action, error) {
	switch s {
	case ".", "":
		return ActionNothing, nil
	case "fire":
		return ActionShoot, nil
	}
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Kind identifies what an actor is. Values match the sprite enum.
type Kind uint8

const (
	KindPlayerTank Kind = iota
	KindProjectile
	KindQuickTank
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindPlayerTank:
		return "player"
	case KindProjectile:
		return "projectile"
	case KindQuickTank:
		return "quick"
	default:
		return "unknown"
	}
}

// IsTank reports whether the kind is a tank.
func (k Kind) IsTank() bool {
	return k == KindPlayerTank || k == KindQuickTank
}

// ParseKind converts a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindPlayerTank, KindProjectile, KindQuickTank} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
