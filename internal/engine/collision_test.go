package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// fireUntilImpact places a single tank, fires every tick and returns the
// result of the tick in which the projectile struck terrain.
func fireUntilImpact(t *testing.T, w *World, id ActorID) TickResult {
	t.Helper()
	require.NoError(t, w.SetSource(id, ActionSourceFunc(func(View, ActorID) Action { return ActionShoot })))

	for i := 0; i < 200; i++ {
		res, err := w.Tick()
		require.NoError(t, err)
		for _, ev := range res.Events {
			if ev.Kind == EventTerrainHit && ev.Actor == id {
				return res
			}
		}
	}
	t.Fatal("projectile never struck terrain")
	return TickResult{}
}

func newWorld(t *testing.T, blocks map[[2]int]Material) *World {
	t.Helper()
	cfg := DefaultConfig()
	tiles := NewTileMap(cfg.MapSize())
	for pos, mat := range blocks {
		require.NoError(t, tiles.PlaceBlock(pos[0], pos[1], mat))
	}
	w, err := NewWorld(cfg, tiles)
	require.NoError(t, err)
	return w
}

func emptyCells(t *testing.T, terrain Terrain, cells []SubTile) {
	t.Helper()
	for _, st := range cells {
		c, err := terrain.Get(st.Col, st.Row)
		require.NoError(t, err)
		assert.True(t, c.Empty(), "sub-tile (%d,%d) should be erased", st.Col, st.Row)
	}
}

func filledCells(t *testing.T, terrain Terrain, cells []SubTile) {
	t.Helper()
	for _, st := range cells {
		c, err := terrain.Get(st.Col, st.Row)
		require.NoError(t, err)
		assert.False(t, c.Empty(), "sub-tile (%d,%d) should survive", st.Col, st.Row)
	}
}

func TestShotBrickFromBelow(t *testing.T) {
	w := newWorld(t, map[[2]int]Material{{5, 5}: MaterialBrick})
	id, err := w.AddActor(ActorSpec{Kind: KindPlayerTank, X: 36, Y: 64, Dir: DirUp})
	require.NoError(t, err)

	res := fireUntilImpact(t, w, id)

	emptyCells(t, w.Terrain(), []SubTile{{10, 11}, {11, 11}})
	filledCells(t, w.Terrain(), []SubTile{{10, 10}, {11, 10}})
	assert.Equal(t, []core.Rect{core.NewRect(40, 40, 8, 8)}, res.Dirty)

	view, err := w.Actor(id)
	require.NoError(t, err)
	assert.False(t, view.HasProjectile, "owner slot cleared in the impact tick")
	assert.Empty(t, res.Projectiles)
}

func TestDirectionalQuadrantRule(t *testing.T) {
	// Parent block at coarse (6,6) covers px 48..56, sub-tiles 12..13.
	tests := []struct {
		name    string
		spec    ActorSpec
		erased  []SubTile
		survive []SubTile
	}{
		{
			name:    "travelling up",
			spec:    ActorSpec{Kind: KindPlayerTank, X: 44, Y: 80, Dir: DirUp},
			erased:  []SubTile{{12, 13}, {13, 13}},
			survive: []SubTile{{12, 12}, {13, 12}},
		},
		{
			name:    "travelling down",
			spec:    ActorSpec{Kind: KindPlayerTank, X: 44, Y: 16, Dir: DirDown},
			erased:  []SubTile{{12, 12}, {13, 12}},
			survive: []SubTile{{12, 13}, {13, 13}},
		},
		{
			name:    "travelling left",
			spec:    ActorSpec{Kind: KindPlayerTank, X: 80, Y: 44, Dir: DirLeft},
			erased:  []SubTile{{13, 12}, {13, 13}},
			survive: []SubTile{{12, 12}, {12, 13}},
		},
		{
			name:    "travelling right",
			spec:    ActorSpec{Kind: KindPlayerTank, X: 16, Y: 44, Dir: DirRight},
			erased:  []SubTile{{12, 12}, {12, 13}},
			survive: []SubTile{{13, 12}, {13, 13}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t, map[[2]int]Material{{6, 6}: MaterialBrick})
			id, err := w.AddActor(tc.spec)
			require.NoError(t, err)

			res := fireUntilImpact(t, w, id)
			emptyCells(t, w.Terrain(), tc.erased)
			filledCells(t, w.Terrain(), tc.survive)
			assert.Equal(t, []core.Rect{core.NewRect(48, 48, 8, 8)}, res.Dirty)

			// The far half is exposed now and falls to the next shot.
			fireUntilImpact(t, w, id)
			emptyCells(t, w.Terrain(), tc.survive)
			assert.Zero(t, w.tiles.FilledCount())
		})
	}
}

func TestConcreteStopsWithoutErasing(t *testing.T) {
	w := newWorld(t, map[[2]int]Material{{5, 5}: MaterialConcrete})
	id, err := w.AddActor(ActorSpec{Kind: KindPlayerTank, X: 36, Y: 64, Dir: DirUp})
	require.NoError(t, err)

	res := fireUntilImpact(t, w, id)
	assert.Equal(t, 4, w.tiles.FilledCount())
	assert.Empty(t, res.Dirty)

	view, err := w.Actor(id)
	require.NoError(t, err)
	assert.False(t, view.HasProjectile)
}

func TestStraddledBlocksBothErased(t *testing.T) {
	w := newWorld(t, map[[2]int]Material{
		{5, 5}: MaterialBrick,
		{6, 5}: MaterialBrick,
	})
	// Projectile spawns at x=46, spanning sub-tile columns 11 and 12.
	id, err := w.AddActor(ActorSpec{Kind: KindPlayerTank, X: 40, Y: 64, Dir: DirUp})
	require.NoError(t, err)

	res := fireUntilImpact(t, w, id)
	emptyCells(t, w.Terrain(), []SubTile{{11, 11}, {12, 11}})
	filledCells(t, w.Terrain(), []SubTile{{10, 11}, {13, 11}, {10, 10}, {11, 10}, {12, 10}, {13, 10}})
	assert.Equal(t, []core.Rect{core.NewRect(40, 40, 16, 8)}, res.Dirty)
}

func TestCollisionEdgeDespawn(t *testing.T) {
	tiles := NewTileMap(52)
	owner := &Actor{ID: 0, Kind: KindPlayerTank}
	p := &Projectile{Owner: 0, X: 100, Y: 0, Dir: DirUp, Speed: 2}
	owner.Projectile = p

	c := NewCollisionResolver(tiles, func(id ActorID) (*Actor, error) { return owner, nil })
	imp, err := c.Resolve(p, MoveOutcome{Reason: BlockBoardEdge, Candidate: core.NewRect(100, -2, 4, 4)})
	require.NoError(t, err)
	assert.Equal(t, ImpactEdge, imp.Kind)
	assert.Nil(t, owner.Projectile)
	assert.True(t, imp.Dirty.IsEmpty())
}

func TestCollisionAbortsBeforeMutation(t *testing.T) {
	tiles := NewTileMap(52)
	require.NoError(t, tiles.PlaceBlock(5, 5, MaterialBrick))
	before := tiles.Clone()

	p := &Projectile{Owner: 3, X: 42, Y: 48, Dir: DirUp, Speed: 2}
	lookupErr := errors.New("no such actor")
	c := NewCollisionResolver(tiles, func(ActorID) (*Actor, error) { return nil, lookupErr })

	_, err := c.Resolve(p, MoveOutcome{Reason: BlockTerrain, Candidate: core.NewRect(42, 46, 4, 4)})
	assert.ErrorIs(t, err, lookupErr)
	assert.True(t, tiles.Equal(before), "terrain must be untouched when despawn fails")
}

func TestCollisionNothingToErase(t *testing.T) {
	tiles := NewTileMap(52)
	owner := &Actor{ID: 0, Kind: KindPlayerTank}
	c := NewCollisionResolver(tiles, func(ActorID) (*Actor, error) { return owner, nil })

	p := &Projectile{Owner: 0, X: 42, Y: 48, Dir: DirUp, Speed: 2}
	imp, err := c.Resolve(p, MoveOutcome{Reason: BlockTerrain, Candidate: core.NewRect(42, 46, 4, 4)})
	require.NoError(t, err)
	assert.Empty(t, imp.Erased)
	assert.True(t, imp.Dirty.IsEmpty())
}

func TestNearSide(t *testing.T) {
	tests := []struct {
		dir  Dir
		near []int
	}{
		{DirUp, []int{2, 3}},
		{DirDown, []int{0, 1}},
		{DirLeft, []int{1, 3}},
		{DirRight, []int{0, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			var got []int
			for q := 0; q < 4; q++ {
				if nearSide(q, tc.dir) {
					got = append(got, q)
				}
			}
			assert.Equal(t, tc.near, got)
		})
	}
}
