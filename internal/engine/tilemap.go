package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Material is the terrain type of a fragment.
type Material uint8

const (
	MaterialBrick Material = iota
	MaterialConcrete

	materialCount
)

// String returns the string representation of a material.
func (m Material) String() string {
	switch m {
	case MaterialBrick:
		return "brick"
	case MaterialConcrete:
		return "concrete"
	default:
		return "unknown"
	}
}

// Destructible reports whether projectiles erase fragments of this material.
func (m Material) Destructible() bool {
	return m == MaterialBrick
}

// Cell is one sub-tile of terrain. Zero is empty; any other value encodes
// material*4 + quadrant + 1.
type Cell uint8

// CellEmpty is the empty sub-tile.
const CellEmpty Cell = 0

const maxCell = Cell(materialCount * 4)

// NewCell encodes a fragment. Quadrant is row*2+col inside its parent block.
func NewCell(m Material, quadrant int) (Cell, error) {
	if m >= materialCount || quadrant < 0 || quadrant > 3 {
		return CellEmpty, fmt.Errorf("material %d quadrant %d: %w", m, quadrant, ErrInvalidCell)
	}
	return Cell(int(m)*4 + quadrant + 1), nil
}

// Empty reports whether the sub-tile holds no terrain.
func (c Cell) Empty() bool {
	return c == CellEmpty
}

// Decode returns the material and quadrant of a nonzero cell.
func (c Cell) Decode() (Material, int, error) {
	if c == CellEmpty || c > maxCell {
		return 0, 0, fmt.Errorf("cell %d: %w", c, ErrInvalidCell)
	}
	v := int(c) - 1
	return Material(v / 4), v % 4, nil
}

// Terrain is read-only access to the tile grid. Movement and rendering
// only ever see this view; writes go through *TileMap.
type Terrain interface {
	Size() int
	Get(col, row int) (Cell, error)
	RegionIsClear(r core.Rect) (bool, error)
}

// TileMap is the destructible terrain grid of 4x4 px sub-tiles.
// Cells are stored in row-major order: index = row*size + col.
type TileMap struct {
	size  int
	cells []Cell
}

// NewTileMap creates an empty square grid with the given side in sub-tiles.
func NewTileMap(size int) *TileMap {
	return &TileMap{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// Size returns the grid side length in sub-tiles.
func (m *TileMap) Size() int {
	return m.size
}

func (m *TileMap) index(col, row int) int {
	return row*m.size + col
}

// InBounds returns true if the sub-tile index is within the grid.
func (m *TileMap) InBounds(col, row int) bool {
	return col >= 0 && col < m.size && row >= 0 && row < m.size
}

// Get returns the sub-tile at (col, row).
func (m *TileMap) Get(col, row int) (Cell, error) {
	if !m.InBounds(col, row) {
		return CellEmpty, fmt.Errorf("get (%d,%d): %w", col, row, ErrOutOfBounds)
	}
	return m.cells[m.index(col, row)], nil
}

// Set overwrites the sub-tile at (col, row). Writing an empty cell over an
// empty cell is a no-op.
func (m *TileMap) Set(col, row int, c Cell) error {
	if !m.InBounds(col, row) {
		return fmt.Errorf("set (%d,%d): %w", col, row, ErrOutOfBounds)
	}
	if c > maxCell {
		return fmt.Errorf("set (%d,%d) to %d: %w", col, row, c, ErrInvalidCell)
	}
	m.cells[m.index(col, row)] = c
	return nil
}

// span converts a pixel interval to the half-open sub-tile range it overlaps:
// [floor(pos/4), floor((pos+extent+3)/4)).
func span(pos, extent int) (lo, hi int) {
	return core.FloorDiv(pos, SubTileSize), core.FloorDiv(pos+extent+SubTileSize-1, SubTileSize)
}

// SubTileRange returns the column and row ranges covered by a pixel rectangle.
func SubTileRange(r core.Rect) (col0, col1, row0, row1 int) {
	col0, col1 = span(r.X, r.W)
	row0, row1 = span(r.Y, r.H)
	return col0, col1, row0, row1
}

// RegionIsClear reports whether every sub-tile overlapped by the pixel
// rectangle is empty. It is the only admission test for movement.
func (m *TileMap) RegionIsClear(r core.Rect) (bool, error) {
	col0, col1, row0, row1 := SubTileRange(r)
	if col0 < 0 || row0 < 0 || col1 > m.size || row1 > m.size {
		return false, fmt.Errorf("region %v: %w", r, ErrOutOfBounds)
	}
	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			if !m.cells[m.index(col, row)].Empty() {
				return false, nil
			}
		}
	}
	return true, nil
}

// Quadrant returns the quadrant a sub-tile occupies in its parent block.
func Quadrant(col, row int) int {
	return (row%2)*2 + col%2
}

// PlaceBlock fills the parent block at coarse coordinates (bx, by) with
// four fragments of the given material.
func (m *TileMap) PlaceBlock(bx, by int, mat Material) error {
	col, row := bx*2, by*2
	if !m.InBounds(col, row) || !m.InBounds(col+1, row+1) {
		return fmt.Errorf("place block (%d,%d): %w", bx, by, ErrOutOfBounds)
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			c, err := NewCell(mat, Quadrant(col+dx, row+dy))
			if err != nil {
				return fmt.Errorf("place block (%d,%d): %w", bx, by, err)
			}
			m.cells[m.index(col+dx, row+dy)] = c
		}
	}
	return nil
}

// ParentFootprint returns the pixel rectangle of the parent block holding
// sub-tile (col, row).
func ParentFootprint(col, row int) core.Rect {
	return core.NewRect(col/2*ParentBlockSize, row/2*ParentBlockSize, ParentBlockSize, ParentBlockSize)
}

// Clone returns a deep copy of the map.
func (m *TileMap) Clone() *TileMap {
	cells := make([]Cell, len(m.cells))
	copy(cells, m.cells)
	return &TileMap{size: m.size, cells: cells}
}

// Equal reports whether two maps hold identical terrain.
func (m *TileMap) Equal(other *TileMap) bool {
	if m.size != other.size {
		return false
	}
	for i, c := range m.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}

// FilledCount returns the number of non-empty sub-tiles.
func (m *TileMap) FilledCount() int {
	count := 0
	for _, c := range m.cells {
		if !c.Empty() {
			count++
		}
	}
	return count
}

// bytes exposes the raw cells for hashing.
func (m *TileMap) bytes() []byte {
	b := make([]byte, len(m.cells))
	for i, c := range m.cells {
		b[i] = byte(c)
	}
	return b
}
