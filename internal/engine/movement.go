package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// BlockReason says why a move was refused.
type BlockReason uint8

const (
	BlockNone BlockReason = iota
	BlockBoardEdge
	BlockTerrain
)

// String returns the string representation of a block reason.
func (r BlockReason) String() string {
	switch r {
	case BlockNone:
		return "none"
	case BlockBoardEdge:
		return "edge"
	case BlockTerrain:
		return "terrain"
	default:
		return "unknown"
	}
}

// MoveOutcome is the result of one move attempt.
// X, Y hold the mover's position after the attempt.
type MoveOutcome struct {
	Moved     bool
	X, Y      int
	Candidate core.Rect // collision box at the attempted position
	Reason    BlockReason
}

// MovementResolver advances movers against the board bounds and terrain.
// It only ever reads terrain.
type MovementResolver struct {
	terrain Terrain
	board   core.Rect
}

// NewMovementResolver creates a resolver for a square board of boardSize px.
func NewMovementResolver(terrain Terrain, boardSize int) *MovementResolver {
	return &MovementResolver{
		terrain: terrain,
		board:   core.NewRect(0, 0, boardSize, boardSize),
	}
}

// Candidate returns the collision box the mover would occupy after one step
// along its current facing.
func (r *MovementResolver) Candidate(m Mover) core.Rect {
	facing := m.Facing()
	dx, dy := facing.Delta()
	speed := m.Velocity()
	x, y := m.Position()
	return m.Shape(facing).Translate(x+dx*speed, y+dy*speed)
}

// Resolve turns the mover toward dir and tries to move it one step.
//
// Rules:
//  1. The facing changes first, even if the move is then refused
//  2. A walking mover advances its walk cycle exactly once per attempt
//  3. A candidate box leaving the board is refused without a terrain query
//  4. Otherwise the candidate box must cover only empty sub-tiles
func (r *MovementResolver) Resolve(m Mover, dir Dir) (MoveOutcome, error) {
	m.Turn(dir)
	if w, ok := m.(walker); ok {
		w.advanceWalk()
	}

	x, y := m.Position()
	cand := r.Candidate(m)
	out := MoveOutcome{X: x, Y: y, Candidate: cand}

	if !cand.Within(r.board) {
		out.Reason = BlockBoardEdge
		return out, nil
	}

	free, err := r.terrain.RegionIsClear(cand)
	if err != nil {
		return out, fmt.Errorf("resolve move: %w", err)
	}
	if !free {
		out.Reason = BlockTerrain
		return out, nil
	}

	shape := m.Shape(m.Facing())
	nx, ny := cand.X-shape.X, cand.Y-shape.Y
	m.MoveTo(nx, ny)
	out.Moved = true
	out.X, out.Y = nx, ny
	return out, nil
}
