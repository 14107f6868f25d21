package report

import (
	"fmt"
	"image"

	"github.com/intothevoid/ocrscope/pkg/board"
	"github.com/intothevoid/ocrscope/pkg/calibration"
	"github.com/intothevoid/ocrscope/pkg/results"
)

// Cell is the grid cell whose calibration point lies nearest a position on
// the frame.
type Cell struct {
	Group    string
	Index    int
	Distance float64
	Occupied bool
	// Stable is only decoded for the board group.
	Stable bool
}

// Locate finds the board or next-piece cell nearest pos and reads its values
// at frame. ok is false when neither group is calibrated.
func Locate(store *results.Store, cal *calibration.Calibration, frame int, pos image.Point) (Cell, bool) {
	var best Cell
	found := false
	for _, group := range []string{calibration.GroupBoard, calibration.GroupNext} {
		index, dist, ok := cal.Nearest(group, pos)
		if !ok || (found && dist >= best.Distance) {
			continue
		}
		best = Cell{Group: group, Index: index, Distance: dist}
		found = true
	}
	if !found {
		return Cell{}, false
	}

	if best.Group == calibration.GroupBoard {
		best.Occupied = store.Mino(frame, best.Index)
		best.Stable = store.StableMino(frame, best.Index)
	} else {
		best.Occupied = store.NextMino(frame, best.Index)
	}
	return best, true
}

func (c Cell) String() string {
	if c.Group == calibration.GroupBoard {
		row, col := board.RowCol(c.Index)
		return fmt.Sprintf("board mino %d (row %d, col %d): occupied %s, stable %s",
			c.Index, row, col, mark(c.Occupied), mark(c.Stable))
	}
	return fmt.Sprintf("%s mino %d: occupied %s", c.Group, c.Index, mark(c.Occupied))
}
