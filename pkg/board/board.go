package board

import (
	"fmt"
	"strings"

	"github.com/intothevoid/ocrscope/pkg/results"
)

const (
	Columns = 10
	Rows    = 20
)

// MinoIndex converts board coordinates to a grid index.
// Row 0 is the top of the playfield, col 0 the leftmost column.
func MinoIndex(row, col int) int {
	return row*Columns + col
}

// RowCol converts a grid index back to board coordinates.
func RowCol(index int) (row, col int) {
	return index / Columns, index % Columns
}

// Grid is a decoded 20x10 board. true = occupied.
type Grid [Rows][Columns]bool

// FromFunc builds a grid by evaluating occupied for every mino index.
func FromFunc(occupied func(mino int) bool) Grid {
	var g Grid
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			g[row][col] = occupied(MinoIndex(row, col))
		}
	}
	return g
}

// Occupancy returns the binary board at frame.
func Occupancy(store *results.Store, frame int) Grid {
	return FromFunc(func(mino int) bool { return store.Mino(frame, mino) })
}

// Stable returns the stable board at frame.
func Stable(store *results.Store, frame int) Grid {
	return FromFunc(func(mino int) bool { return store.StableMino(frame, mino) })
}

// Count returns the number of occupied cells.
func (g Grid) Count() int {
	n := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if g[row][col] {
				n++
			}
		}
	}
	return n
}

// Disagreements counts cells where the binary and stable boards of a frame
// decode differently.
func Disagreements(store *results.Store, frame int) int {
	n := 0
	for i := 0; i < results.GridSize; i++ {
		if store.Mino(frame, i) != store.StableMino(frame, i) {
			n++
		}
	}
	return n
}

// Format returns a text representation of the grid.
// 'X' = occupied, '.' = empty. Rows are numbered from the top.
func Format(g Grid) string {
	var sb strings.Builder
	sb.WriteString("   0 1 2 3 4 5 6 7 8 9\n")
	for row := 0; row < Rows; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < Columns; col++ {
			if g[row][col] {
				sb.WriteString("X ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
