package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// ImpactKind says what ended a projectile.
type ImpactKind uint8

const (
	ImpactEdge ImpactKind = iota
	ImpactTerrain
	ImpactActor
)

// String returns the string representation of an impact kind.
func (k ImpactKind) String() string {
	switch k {
	case ImpactEdge:
		return "edge"
	case ImpactTerrain:
		return "terrain"
	case ImpactActor:
		return "actor"
	default:
		return "unknown"
	}
}

// SubTile addresses one cell of the terrain grid.
type SubTile struct {
	Col, Row int
}

// Impact describes a resolved projectile collision.
type Impact struct {
	Kind   ImpactKind
	Owner  ActorID
	Target ActorID // struck actor for ImpactActor, NoActor otherwise
	Erased []SubTile
	Dirty  core.Rect // empty when no terrain changed
}

// actorLookup resolves a projectile owner key.
type actorLookup func(ActorID) (*Actor, error)

// CollisionResolver despawns blocked projectiles and destroys the terrain
// they strike. It is the only writer of the tile map during a tick.
type CollisionResolver struct {
	tiles  *TileMap
	lookup actorLookup
}

// NewCollisionResolver creates a resolver writing to tiles.
func NewCollisionResolver(tiles *TileMap, lookup actorLookup) *CollisionResolver {
	return &CollisionResolver{tiles: tiles, lookup: lookup}
}

// Resolve handles a projectile whose move was refused.
// Every terrain read happens before the first write, so a failing lookup
// leaves both the map and the owner untouched.
func (c *CollisionResolver) Resolve(p *Projectile, out MoveOutcome) (Impact, error) {
	imp := Impact{Owner: p.Owner, Target: NoActor}

	switch out.Reason {
	case BlockBoardEdge:
		imp.Kind = ImpactEdge
		if err := c.despawn(p); err != nil {
			return imp, err
		}
		return imp, nil

	case BlockTerrain:
		imp.Kind = ImpactTerrain
		erase, err := c.plan(out.Candidate, p.Dir)
		if err != nil {
			return imp, fmt.Errorf("resolve impact: %w", err)
		}
		if err := c.despawn(p); err != nil {
			return imp, err
		}
		for _, st := range erase {
			if err := c.tiles.Set(st.Col, st.Row, CellEmpty); err != nil {
				return imp, fmt.Errorf("resolve impact: %w", err)
			}
			imp.Dirty = imp.Dirty.Union(ParentFootprint(st.Col, st.Row))
		}
		imp.Erased = erase
		return imp, nil

	default:
		return imp, fmt.Errorf("resolve impact: projectile of actor %d was not blocked", p.Owner)
	}
}

// ResolveHit despawns a projectile that struck another actor.
func (c *CollisionResolver) ResolveHit(p *Projectile, target ActorID) (Impact, error) {
	imp := Impact{Kind: ImpactActor, Owner: p.Owner, Target: target}
	if _, err := c.lookup(target); err != nil {
		return imp, fmt.Errorf("resolve hit: %w", err)
	}
	if err := c.despawn(p); err != nil {
		return imp, err
	}
	return imp, nil
}

func (c *CollisionResolver) despawn(p *Projectile) error {
	owner, err := c.lookup(p.Owner)
	if err != nil {
		return fmt.Errorf("despawn projectile: %w", err)
	}
	if owner.Projectile == p {
		owner.Projectile = nil
	}
	return nil
}

// leadingSpan returns the 1xN or Nx1 sub-tile range of the candidate box's
// leading row or column.
func leadingSpan(cand core.Rect, d Dir) (col0, col1, row0, row1 int) {
	col0, col1, row0, row1 = SubTileRange(cand)
	switch d {
	case DirUp:
		row1 = row0 + 1
	case DirDown:
		row0 = row1 - 1
	case DirLeft:
		col1 = col0 + 1
	case DirRight:
		col0 = col1 - 1
	}
	return col0, col1, row0, row1
}

// nearSide reports whether a quadrant faces a shooter travelling in d.
// Travelling up hits the bottom row (2,3); down hits the top row (0,1);
// left hits the right column (1,3); right hits the left column (0,2).
func nearSide(quadrant int, d Dir) bool {
	row, col := quadrant/2, quadrant%2
	switch d {
	case DirUp:
		return row == 1
	case DirDown:
		return row == 0
	case DirLeft:
		return col == 1
	default:
		return col == 0
	}
}

// plan lists the fragments a projectile travelling in d destroys when its
// candidate box is blocked. Only near-side fragments of an intact block are
// erased, so a shot travelling up never takes the top row of a whole block.
// A far-side fragment is hit only once it is exposed: its near-side sibling
// in the same parent block must already be gone.
func (c *CollisionResolver) plan(cand core.Rect, d Dir) ([]SubTile, error) {
	col0, col1, row0, row1 := leadingSpan(cand, d)
	var erase []SubTile

	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			cell, err := c.tiles.Get(col, row)
			if err != nil {
				return nil, err
			}
			if cell.Empty() {
				continue
			}
			mat, quadrant, err := cell.Decode()
			if err != nil {
				return nil, err
			}
			if !mat.Destructible() {
				continue
			}
			if !nearSide(quadrant, d) {
				dx, dy := d.Delta()
				sibling, err := c.tiles.Get(col-dx, row-dy)
				if err != nil {
					return nil, err
				}
				if !sibling.Empty() {
					continue
				}
			}
			erase = append(erase, SubTile{Col: col, Row: row})
		}
	}
	return erase, nil
}
