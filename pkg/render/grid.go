package render

import (
	"math"
	"strings"

	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Terminal cells are about twice as tall as wide.
const (
	CellWidth  = 6.0
	CellHeight = 12.0
)

// Glyphs used by [Grid].
const (
	GlyphEmpty = ' '
	GlyphLink  = '·'
	GlyphNode  = '●'
	GlyphFixed = '◉'
)

// Cell is one character of a rasterized frame.
type Cell struct {
	Rune   rune
	Color  string // node fill color; empty for links and blanks
	Dim    bool
	NodeID string
}

// Grid is a character raster of a frame. The center cell shows the model
// origin under the view transform.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

// NewGrid returns an empty cols×rows grid.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	g.Clear()
	return g
}

// Clear blanks every cell.
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i] = Cell{Rune: GlyphEmpty}
	}
}

// At returns the cell at (col, row).
func (g *Grid) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return Cell{Rune: GlyphEmpty}
	}
	return g.Cells[row*g.Cols+col]
}

// ViewPoint maps the center of cell (col, row) into the controller's screen
// space, the space [interact.Transform] maps model points into.
func (g *Grid) ViewPoint(col, row int) sim.Point {
	return sim.Point{
		X: (float64(col)+0.5)*CellWidth - float64(g.Cols)*CellWidth/2,
		Y: (float64(row)+0.5)*CellHeight - float64(g.Rows)*CellHeight/2,
	}
}

// cellOf maps a screen point back to a cell.
func (g *Grid) cellOf(p sim.Point) (col, row int) {
	col = int(math.Floor((p.X + float64(g.Cols)*CellWidth/2) / CellWidth))
	row = int(math.Floor((p.Y + float64(g.Rows)*CellHeight/2) / CellHeight))
	return col, row
}

func (g *Grid) set(col, row int, c Cell) {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return
	}
	g.Cells[row*g.Cols+col] = c
}

// Draw rasterizes f: links first, then nodes on top.
func (g *Grid) Draw(f sim.Frame, view interact.Transform, h *interact.Highlight) {
	g.Clear()
	for _, l := range f.Links {
		c0, r0 := g.cellOf(view.Apply(sim.Point{X: l.X1, Y: l.Y1}))
		c1, r1 := g.cellOf(view.Apply(sim.Point{X: l.X2, Y: l.Y2}))
		dim := h != nil && !(h.Contains(l.Source) && h.Contains(l.Target))
		g.line(c0, r0, c1, r1, Cell{Rune: GlyphLink, Dim: dim})
	}
	for _, n := range f.Nodes {
		p := view.Apply(sim.Point{X: n.X, Y: n.Y})
		glyph := GlyphNode
		if n.Fixed {
			glyph = GlyphFixed
		}
		cell := Cell{Rune: glyph, Color: n.Color, NodeID: n.ID, Dim: h != nil && !h.Contains(n.ID)}
		g.disc(p, n.Radius*view.K, cell)
	}
}

// disc fills every cell whose center lies within r of p, and at least the
// cell containing p.
func (g *Grid) disc(p sim.Point, r float64, c Cell) {
	col, row := g.cellOf(p)
	g.set(col, row, c)
	dc := int(math.Ceil(r / CellWidth))
	dr := int(math.Ceil(r / CellHeight))
	for y := row - dr; y <= row+dr; y++ {
		for x := col - dc; x <= col+dc; x++ {
			q := g.ViewPoint(x, y)
			if math.Hypot(q.X-p.X, q.Y-p.Y) <= r {
				g.set(x, y, c)
			}
		}
	}
}

// line draws a Bresenham segment, cut after a few grid spans.
func (g *Grid) line(x0, y0, x1, y1 int, c Cell) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for steps := 0; steps <= 4*(g.Cols+g.Rows); steps++ {
		g.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// String returns the glyphs without color, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			b.WriteRune(g.At(col, row).Rune)
		}
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
