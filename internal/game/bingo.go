// internal/game/bingo.go
//
// Per-team bingo grid: a rectangle of distinct ball numbers, mark tracking
// and line-completion detection. Cell and line state are bitmasks, which
// keeps "did this mark complete a new line" a couple of AND operations.

package game

import (
	"math/bits"
	"math/rand"
)

// LineKind classifies a completed bingo line.
type LineKind int

const (
	LineRow LineKind = iota
	LineColumn
	LineDiagonal
)

func (k LineKind) String() string {
	switch k {
	case LineRow:
		return "row"
	case LineColumn:
		return "column"
	case LineDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// Line identifies one completed line on a grid. Index is the row or column
// number; for diagonals 0 is top-left→bottom-right and 1 the other one.
type Line struct {
	Kind  LineKind
	Index int
}

// When pre-covering free spaces on a fresh grid, never cover a third space
// in any single line: the grid must not start with a bingo or a nearly
// finished line.
const maxFreeSpacesPerLine = 2

// Grid is one team's bingo card. Cells hold distinct ball numbers drawn from
// the shared pool; marking happens only through drawn balls.
type Grid struct {
	width, height int
	diagonals     bool
	cells         []int
	marked        uint32
	awarded       map[Line]bool
}

// NewGrid creates an empty w×h grid. Diagonal lines count only on square
// grids. The grid is unusable until Generate is called.
func NewGrid(w, h int, diagonals bool) *Grid {
	if w*h > 32 {
		panic("game: bingo grid larger than 32 cells")
	}
	return &Grid{
		width:     w,
		height:    h,
		diagonals: diagonals && w == h,
		awarded:   make(map[Line]bool),
	}
}

// Generate fills the grid with a random selection of distinct balls from
// 1..poolSize and covers freeSpaces cells for free, never placing a third
// free space in any line. All previously awarded lines are forgotten.
func (g *Grid) Generate(poolSize, freeSpaces int, rng *rand.Rand) {
	perm := rng.Perm(poolSize)
	g.cells = g.cells[:0]
	for i := 0; i < g.width*g.height; i++ {
		g.cells = append(g.cells, perm[i]+1)
	}
	g.marked = 0
	g.awarded = make(map[Line]bool)

	g.coverFreeSpaces(freeSpaces, rng)

	// Free spaces are a head start, not an award.
	for _, lm := range g.lineMasks() {
		if g.marked&lm.mask == lm.mask {
			g.awarded[lm.line] = true
		}
	}
}

// coverFreeSpaces implements the capped random cover: uniform over the
// cells still allowed, where a line that already holds the maximum free
// spaces removes its remaining cells from the allowed set.
func (g *Grid) coverFreeSpaces(n int, rng *rand.Rand) {
	available := uint32(1)<<uint(g.width*g.height) - 1
	for picked := 0; picked < n && available != 0; picked++ {
		chosen := nthOneBit(available, rng.Intn(bits.OnesCount32(available)))
		g.marked |= 1 << chosen
		available &^= 1 << chosen

		for _, lm := range g.lineMasks() {
			if bits.OnesCount32(g.marked&lm.mask) >= maxFreeSpacesPerLine {
				available &^= lm.mask
			}
		}
	}
}

// Mark covers the cell holding ball, if this grid has it. It reports whether
// anything changed and which lines were completed by exactly this mark.
// Re-marking a covered cell and re-completing an awarded line are no-ops.
func (g *Grid) Mark(ball int) (changed bool, newLines []Line) {
	idx := -1
	for i, b := range g.cells {
		if b == ball {
			idx = i
			break
		}
	}
	if idx < 0 || g.marked&(1<<uint(idx)) != 0 {
		return false, nil
	}
	g.marked |= 1 << uint(idx)

	for _, lm := range g.lineMasks() {
		if g.marked&lm.mask == lm.mask && !g.awarded[lm.line] {
			g.awarded[lm.line] = true
			newLines = append(newLines, lm.line)
		}
	}
	return true, newLines
}

// Cell returns the ball number and mark state at (col, row).
func (g *Grid) Cell(col, row int) (ball int, marked bool) {
	idx := row*g.width + col
	return g.cells[idx], g.marked&(1<<uint(idx)) != 0
}

// Size returns the grid dimensions.
func (g *Grid) Size() (w, h int) { return g.width, g.height }

// Cells returns the ball layout in row-major order.
func (g *Grid) Cells() []int { return append([]int(nil), g.cells...) }

// Marked returns the row-major mark bitmask.
func (g *Grid) Marked() uint32 { return g.marked }

// CompletedLines returns every line awarded so far, in no particular order.
func (g *Grid) CompletedLines() []Line {
	out := make([]Line, 0, len(g.awarded))
	for l := range g.awarded {
		out = append(out, l)
	}
	return out
}

type lineMask struct {
	line Line
	mask uint32
}

func (g *Grid) lineMasks() []lineMask {
	masks := make([]lineMask, 0, g.width+g.height+2)
	for r := 0; r < g.height; r++ {
		masks = append(masks, lineMask{
			line: Line{Kind: LineRow, Index: r},
			mask: ((1 << uint(g.width)) - 1) << uint(r*g.width),
		})
	}
	for c := 0; c < g.width; c++ {
		var m uint32
		for r := 0; r < g.height; r++ {
			m |= 1 << uint(r*g.width+c)
		}
		masks = append(masks, lineMask{line: Line{Kind: LineColumn, Index: c}, mask: m})
	}
	if g.diagonals {
		var a, b uint32
		for i := 0; i < g.width; i++ {
			a |= 1 << uint(i*g.width+i)
			b |= 1 << uint(i*g.width+g.width-1-i)
		}
		masks = append(masks,
			lineMask{line: Line{Kind: LineDiagonal, Index: 0}, mask: a},
			lineMask{line: Line{Kind: LineDiagonal, Index: 1}, mask: b},
		)
	}
	return masks
}

// nthOneBit returns the position of the n-th (0-based) set bit of v.
func nthOneBit(v uint32, n int) uint {
	for i := uint(0); i < 32; i++ {
		if v&(1<<i) != 0 {
			if n == 0 {
				return i
			}
			n--
		}
	}
	panic("game: not enough set bits")
}
