package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/engine"
)

// halfBlock shows the top sub-tile as foreground and the bottom as background.
const halfBlock = '▀'

// paletteSize is the number of core.Color entries.
const paletteSize = int(core.ColorDarkGray) + 1

// cellStyles holds one lipgloss style per foreground/background pair.
var cellStyles = func() [paletteSize][paletteSize]lipgloss.Style {
	var styles [paletteSize][paletteSize]lipgloss.Style
	for fg := range paletteSize {
		for bg := range paletteSize {
			st := lipgloss.NewStyle()
			if code := core.Color(fg).ANSI(); code != "" {
				st = st.Foreground(lipgloss.Color(code))
			}
			if code := core.Color(bg).ANSI(); code != "" {
				st = st.Background(lipgloss.Color(code))
			}
			styles[fg][bg] = st
		}
	}
	return styles
}()

func styleFor(fg, bg core.Color) lipgloss.Style {
	if int(fg) >= paletteSize || int(bg) >= paletteSize {
		return cellStyles[0][0]
	}
	return cellStyles[fg][bg]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.FG != start.FG || cell.BG != start.BG {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(start.FG, start.BG).Render(run.String()))
		}
	}
	return sb.String()
}

// BoardRenderer draws the arena at sub-tile resolution. Each terminal cell
// covers one sub-tile column and two sub-tile rows (4x8 px).
//
// Terrain colors are cached and only repainted over the dirty rectangles a
// tick reports; sprites are composed on top every frame.
type BoardRenderer struct {
	size    int
	terrain []core.Color
	dots    []core.Color
}

// NewBoardRenderer creates a renderer and paints the full terrain cache.
func NewBoardRenderer(t engine.Terrain) *BoardRenderer {
	size := t.Size()
	r := &BoardRenderer{
		size:    size,
		terrain: make([]core.Color, size*size),
		dots:    make([]core.Color, size*size),
	}
	r.Repaint(t)
	return r
}

// CellSize returns the board size in terminal cells.
func (r *BoardRenderer) CellSize() (w, h int) {
	return r.size, (r.size + 1) / 2
}

// Repaint refreshes the whole terrain cache.
func (r *BoardRenderer) Repaint(t engine.Terrain) {
	r.paint(t, 0, r.size, 0, r.size)
}

// Invalidate repaints the terrain cache under the given pixel rectangles.
func (r *BoardRenderer) Invalidate(t engine.Terrain, dirty []core.Rect) {
	for _, rect := range dirty {
		col0, col1, row0, row1 := engine.SubTileRange(rect)
		r.paint(t, max(col0, 0), min(col1, r.size), max(row0, 0), min(row1, r.size))
	}
}

func (r *BoardRenderer) paint(t engine.Terrain, col0, col1, row0, row1 int) {
	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			c, err := t.Get(col, row)
			if err != nil {
				c = engine.CellEmpty
			}
			r.terrain[row*r.size+col] = terrainColor(c)
		}
	}
}

// Dot returns the composed color at a sub-tile after the last Draw.
func (r *BoardRenderer) Dot(col, row int) core.Color {
	if col < 0 || col >= r.size || row < 0 || row >= r.size {
		return core.ColorGround
	}
	return r.dots[row*r.size+col]
}

func (r *BoardRenderer) setDot(col, row int, c core.Color) {
	if col < 0 || col >= r.size || row < 0 || row >= r.size {
		return
	}
	r.dots[row*r.size+col] = c
}

// Draw composes terrain and sprites and writes them to the screen with the
// board's top-left cell at (ox, oy).
func (r *BoardRenderer) Draw(s *core.Screen, ox, oy int, v engine.View) {
	copy(r.dots, r.terrain)

	for _, a := range v.Actors {
		r.drawTank(a)
	}
	for _, p := range v.Projectiles {
		r.setDot(core.FloorDiv(p.X, engine.SubTileSize), core.FloorDiv(p.Y, engine.SubTileSize), core.ColorProjectile)
	}
	for _, e := range v.Effects {
		r.drawExplosion(e)
	}

	w, h := r.CellSize()
	for cy := range h {
		for cx := range w {
			s.SetCell(ox+cx, oy+cy, core.Cell{
				Rune: halfBlock,
				FG:   r.Dot(cx, cy*2),
				BG:   r.Dot(cx, cy*2+1),
			})
		}
	}
}

// tankSprite is a tank facing up, one rune per sub-tile:
// g barrel, t track, b hull.
var tankSprite = [4]string{
	"tggt",
	"tbbt",
	"tbbt",
	"tbbt",
}

func (r *BoardRenderer) drawTank(a engine.ActorView) {
	hull := core.ColorPlayer
	if a.Kind == engine.KindQuickTank {
		hull = core.ColorQuickTank
	}

	col0 := core.FloorDiv(a.X, engine.SubTileSize)
	row0 := core.FloorDiv(a.Y, engine.SubTileSize)
	n := engine.TankSize / engine.SubTileSize

	for j := range n {
		for i := range n {
			// map the screen offset back into the up-facing sprite
			u, v := i, j
			switch a.Dir {
			case engine.DirDown:
				u, v = n-1-i, n-1-j
			case engine.DirLeft:
				u, v = j, i
			case engine.DirRight:
				u, v = j, n-1-i
			}

			c := hull
			switch tankSprite[v][u] {
			case 'g':
				c = core.ColorWhite
			case 't':
				if (v+int(a.Frame))%2 == 1 {
					c = core.ColorDarkGray
				}
			}
			r.setDot(col0+i, row0+j, c)
		}
	}
}

func (r *BoardRenderer) drawExplosion(e engine.EffectView) {
	col := core.FloorDiv(e.X, engine.SubTileSize)
	row := core.FloorDiv(e.Y, engine.SubTileSize)
	for dy := -e.Frame; dy <= e.Frame; dy++ {
		for dx := -e.Frame; dx <= e.Frame; dx++ {
			c := core.ColorExplosion
			if dx == 0 && dy == 0 {
				c = core.ColorBrightYellow
			}
			r.setDot(col+dx, row+dy, c)
		}
	}
}

func terrainColor(c engine.Cell) core.Color {
	mat, quadrant, err := c.Decode()
	if err != nil {
		return core.ColorGround
	}
	switch mat {
	case engine.MaterialConcrete:
		return core.ColorConcrete
	default:
		// checker the fragments so half-eaten bricks read clearly
		if quadrant == 1 || quadrant == 2 {
			return core.ColorRed
		}
		return core.ColorBrick
	}
}

// BoardText renders the terrain and tanks as plain ASCII, one character per
// sub-tile, for headless output.
func BoardText(v engine.View) string {
	size := v.Terrain.Size()
	grid := make([][]byte, size)
	for row := range grid {
		grid[row] = make([]byte, size)
		for col := range grid[row] {
			grid[row][col] = '.'
			c, err := v.Terrain.Get(col, row)
			if err != nil || c.Empty() {
				continue
			}
			if mat, _, _ := c.Decode(); mat == engine.MaterialConcrete {
				grid[row][col] = '@'
			} else {
				grid[row][col] = '#'
			}
		}
	}

	put := func(col, row int, ch byte) {
		if col >= 0 && col < size && row >= 0 && row < size {
			grid[row][col] = ch
		}
	}
	n := engine.TankSize / engine.SubTileSize
	for _, a := range v.Actors {
		ch := byte('P')
		if a.Kind == engine.KindQuickTank {
			ch = 'Q'
		}
		col0 := core.FloorDiv(a.X, engine.SubTileSize)
		row0 := core.FloorDiv(a.Y, engine.SubTileSize)
		for j := range n {
			for i := range n {
				put(col0+i, row0+j, ch)
			}
		}
	}
	for _, p := range v.Projectiles {
		put(core.FloorDiv(p.X, engine.SubTileSize), core.FloorDiv(p.Y, engine.SubTileSize), '*')
	}

	lines := make([]string, size)
	for row := range grid {
		lines[row] = string(grid[row])
	}
	return strings.Join(lines, "\n")
}
