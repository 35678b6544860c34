package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/engine"
)

func brickMap(t *testing.T) *engine.TileMap {
	t.Helper()
	tiles := engine.NewTileMap(engine.DefaultConfig().MapSize())
	require.NoError(t, tiles.PlaceBlock(0, 0, engine.MaterialBrick))
	require.NoError(t, tiles.PlaceBlock(2, 0, engine.MaterialConcrete))
	return tiles
}

func TestBoardRendererSize(t *testing.T) {
	r := NewBoardRenderer(brickMap(t))
	w, h := r.CellSize()
	assert.Equal(t, 52, w)
	assert.Equal(t, 26, h)
}

func TestBoardRendererHalfBlocks(t *testing.T) {
	tiles := brickMap(t)
	r := NewBoardRenderer(tiles)
	screen := core.NewScreen(52, 26)

	r.Draw(screen, 0, 0, engine.View{Terrain: tiles})

	// top row of the brick block is quadrants 0 and 1, bottom is 2 and 3
	assert.Equal(t, core.Cell{Rune: halfBlock, FG: core.ColorBrick, BG: core.ColorRed}, screen.GetCell(0, 0))
	assert.Equal(t, core.Cell{Rune: halfBlock, FG: core.ColorRed, BG: core.ColorBrick}, screen.GetCell(1, 0))
	assert.Equal(t, core.ColorConcrete, screen.GetCell(4, 0).FG)
	assert.Equal(t, core.ColorConcrete, screen.GetCell(5, 0).BG)
	assert.Equal(t, core.ColorGround, screen.GetCell(2, 0).FG)
}

func TestBoardRendererDirtyRepaint(t *testing.T) {
	tiles := brickMap(t)
	r := NewBoardRenderer(tiles)
	screen := core.NewScreen(52, 26)

	require.NoError(t, tiles.Set(0, 0, engine.CellEmpty))

	r.Draw(screen, 0, 0, engine.View{Terrain: tiles})
	assert.Equal(t, core.ColorBrick, screen.GetCell(0, 0).FG, "cache is stale until invalidated")

	r.Invalidate(tiles, []core.Rect{engine.ParentFootprint(0, 0)})
	r.Draw(screen, 0, 0, engine.View{Terrain: tiles})
	assert.Equal(t, core.ColorGround, screen.GetCell(0, 0).FG)
	assert.Equal(t, core.ColorRed, screen.GetCell(0, 0).BG)

	// rectangles hanging off the board are clipped
	r.Invalidate(tiles, []core.Rect{core.NewRect(200, 200, 16, 16)})
}

func TestBoardRendererTankSprite(t *testing.T) {
	tiles := engine.NewTileMap(engine.DefaultConfig().MapSize())
	r := NewBoardRenderer(tiles)
	screen := core.NewScreen(52, 26)

	tank := engine.ActorView{Kind: engine.KindPlayerTank, X: 16, Y: 16, Dir: engine.DirUp}
	r.Draw(screen, 0, 0, engine.View{Terrain: tiles, Actors: []engine.ActorView{tank}})

	assert.Equal(t, core.ColorWhite, r.Dot(5, 4), "barrel")
	assert.Equal(t, core.ColorPlayer, r.Dot(4, 4), "track")
	assert.Equal(t, core.ColorDarkGray, r.Dot(4, 5), "track gap")
	assert.Equal(t, core.ColorPlayer, r.Dot(5, 5), "hull")

	tank.Frame = engine.FrameSecond
	r.Draw(screen, 0, 0, engine.View{Terrain: tiles, Actors: []engine.ActorView{tank}})
	assert.Equal(t, core.ColorDarkGray, r.Dot(4, 4), "tracks shift with the walk frame")

	tank.Dir = engine.DirRight
	tank.Kind = engine.KindQuickTank
	r.Draw(screen, 0, 0, engine.View{Terrain: tiles, Actors: []engine.ActorView{tank}})
	assert.Equal(t, core.ColorWhite, r.Dot(7, 5), "barrel points right")
	assert.Equal(t, core.ColorQuickTank, r.Dot(5, 5))
}

func TestBoardRendererProjectileAndExplosion(t *testing.T) {
	tiles := engine.NewTileMap(engine.DefaultConfig().MapSize())
	r := NewBoardRenderer(tiles)
	screen := core.NewScreen(52, 26)

	r.Draw(screen, 0, 0, engine.View{
		Terrain:     tiles,
		Projectiles: []engine.ProjectileView{{X: 41, Y: 40, Dir: engine.DirUp}},
		Effects:     []engine.EffectView{{Kind: engine.EffectExplosion, X: 80, Y: 80, Frame: 1}},
	})

	assert.Equal(t, core.ColorProjectile, r.Dot(10, 10))
	assert.Equal(t, core.ColorBrightYellow, r.Dot(20, 20))
	assert.Equal(t, core.ColorExplosion, r.Dot(19, 21))
	assert.Equal(t, core.ColorGround, r.Dot(22, 20))
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "tick", core.ColorWhite)
	s.DrawText(5, 0, "42", core.ColorRed)
	s.DrawText(0, 1, "ok", core.ColorDefault)

	out := RenderScreen(s)
	assert.Contains(t, out, "tick")
	assert.Contains(t, out, "42")
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}

func TestBoardText(t *testing.T) {
	tiles := brickMap(t)
	view := engine.View{
		Terrain: tiles,
		Actors:  []engine.ActorView{{Kind: engine.KindQuickTank, X: 0, Y: 40, Dir: engine.DirUp}},
	}

	lines := strings.Split(BoardText(view), "\n")
	require.Len(t, lines, 52)
	assert.Equal(t, "##..@@..", lines[0][:8])
	assert.Equal(t, "QQQQ....", lines[10][:8])
	assert.Equal(t, "........", lines[9][:8])
}
