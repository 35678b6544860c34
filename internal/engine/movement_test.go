package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

func newTank(x, y int, d Dir) *Actor {
	return &Actor{Kind: KindPlayerTank, X: x, Y: y, Dir: d, Speed: 1, Walk: NewWalkCycle(3)}
}

func TestResolveMoves(t *testing.T) {
	tiles := NewTileMap(52)
	r := NewMovementResolver(tiles, 208)
	a := newTank(40, 40, DirUp)

	out, err := r.Resolve(a, DirRight)
	require.NoError(t, err)
	assert.True(t, out.Moved)
	assert.Equal(t, BlockNone, out.Reason)
	assert.Equal(t, 41, a.X)
	assert.Equal(t, 40, a.Y)
	assert.Equal(t, DirRight, a.Dir)
	assert.Equal(t, 41, out.X)
}

func TestResolveBoardEdgeTurnsInPlace(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		dir  Dir
	}{
		{"left edge", 0, 100, DirLeft},
		{"top edge", 100, 0, DirUp},
		{"right edge", 192, 100, DirRight},
		{"bottom edge", 100, 192, DirDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewMovementResolver(NewTileMap(52), 208)
			a := newTank(tc.x, tc.y, (tc.dir+2)%4)

			out, err := r.Resolve(a, tc.dir)
			require.NoError(t, err)
			assert.False(t, out.Moved)
			assert.Equal(t, BlockBoardEdge, out.Reason)
			assert.Equal(t, tc.x, a.X)
			assert.Equal(t, tc.y, a.Y)
			assert.Equal(t, tc.dir, a.Dir, "facing changes even when blocked")
		})
	}
}

// rejectingTerrain fails the test if it is ever queried.
type rejectingTerrain struct{ t *testing.T }

func (r rejectingTerrain) Size() int { return 52 }
func (r rejectingTerrain) Get(int, int) (Cell, error) {
	r.t.Fatal("unexpected terrain read")
	return CellEmpty, nil
}
func (r rejectingTerrain) RegionIsClear(rect core.Rect) (bool, error) {
	r.t.Fatalf("unexpected terrain query for %v", rect)
	return false, nil
}

func TestResolveBoardEdgeSkipsTerrain(t *testing.T) {
	r := NewMovementResolver(rejectingTerrain{t}, 208)
	a := newTank(0, 0, DirUp)

	out, err := r.Resolve(a, DirUp)
	require.NoError(t, err)
	assert.Equal(t, BlockBoardEdge, out.Reason)
}

func TestResolveBlockedByTerrain(t *testing.T) {
	tiles := NewTileMap(52)
	require.NoError(t, tiles.PlaceBlock(5, 3, MaterialBrick)) // px 40..48, 24..32
	r := NewMovementResolver(tiles, 208)
	a := newTank(40, 32, DirUp)

	out, err := r.Resolve(a, DirUp)
	require.NoError(t, err)
	assert.False(t, out.Moved)
	assert.Equal(t, BlockTerrain, out.Reason)
	assert.Equal(t, 32, a.Y)
}

func TestResolveWalkCycle(t *testing.T) {
	r := NewMovementResolver(NewTileMap(52), 208)
	a := newTank(100, 100, DirUp)

	for i := 0; i < 2; i++ {
		_, err := r.Resolve(a, DirUp)
		require.NoError(t, err)
		assert.Equal(t, FrameFirst, a.Walk.Frame)
	}
	_, err := r.Resolve(a, DirUp)
	require.NoError(t, err)
	assert.Equal(t, FrameSecond, a.Walk.Frame)

	// Blocked attempts advance the cycle too.
	edge := newTank(0, 0, DirUp)
	for i := 0; i < 3; i++ {
		_, err := r.Resolve(edge, DirUp)
		require.NoError(t, err)
	}
	assert.Equal(t, FrameSecond, edge.Walk.Frame)
}

func TestResolveProjectileKeepsHeading(t *testing.T) {
	r := NewMovementResolver(NewTileMap(52), 208)
	p := &Projectile{X: 100, Y: 100, Dir: DirLeft, Speed: 2}

	out, err := r.Resolve(p, DirUp)
	require.NoError(t, err)
	assert.True(t, out.Moved)
	assert.Equal(t, DirLeft, p.Dir)
	assert.Equal(t, 98, p.X)
	assert.Equal(t, 100, p.Y)
}
