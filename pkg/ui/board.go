package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/intothevoid/ocrscope/pkg/board"
)

var (
	emptyCell    = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	filledCell   = color.NRGBA{R: 0xd0, G: 0x3a, B: 0x3a, A: 0xff}
	gridLine     = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x44, A: 0xff}
	stableMarker = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
)

// BoardWidget is a virtual 10x20 playfield. Occupied cells are filled; cells
// the stable decode counts as occupied get a ring, so the two decodes can be
// compared at a glance.
type BoardWidget struct {
	widget.BaseWidget

	// Pre-built canvas objects
	cells [board.Rows][board.Columns]*canvas.Rectangle
	rings [board.Rows][board.Columns]*canvas.Circle
	root  *fyne.Container
}

// NewBoardWidget creates an empty board.
func NewBoardWidget() *BoardWidget {
	b := &BoardWidget{}
	b.ExtendBaseWidget(b)

	objects := make([]fyne.CanvasObject, 0, 2*board.Rows*board.Columns)
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Columns; col++ {
			rect := canvas.NewRectangle(emptyCell)
			rect.StrokeColor = gridLine
			rect.StrokeWidth = 1
			b.cells[row][col] = rect
			objects = append(objects, rect)

			ring := canvas.NewCircle(color.Transparent)
			ring.StrokeColor = stableMarker
			ring.StrokeWidth = 2
			ring.Hidden = true
			b.rings[row][col] = ring
			objects = append(objects, ring)
		}
	}

	b.root = container.NewWithoutLayout(objects...)
	return b
}

// UpdateBoard shows a new pair of grids. Safe to call from any goroutine.
func (b *BoardWidget) UpdateBoard(occupied, stable board.Grid) {
	fyne.Do(func() {
		b.apply(occupied, stable)
	})
}

func (b *BoardWidget) apply(occupied, stable board.Grid) {
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Columns; col++ {
			if occupied[row][col] {
				b.cells[row][col].FillColor = filledCell
			} else {
				b.cells[row][col].FillColor = emptyCell
			}
			b.cells[row][col].Refresh()

			b.rings[row][col].Hidden = !stable[row][col]
			b.rings[row][col].Refresh()
		}
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{b: b}
}

type boardRenderer struct {
	b *BoardWidget
}

func (r *boardRenderer) Destroy() {}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 200)
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.b.root}
}

func (r *boardRenderer) Refresh() {
	r.b.root.Refresh()
}

func (r *boardRenderer) Layout(size fyne.Size) {
	cell := size.Width / board.Columns
	if h := size.Height / board.Rows; h < cell {
		cell = h
	}

	// Center the board within the available space
	offsetX := (size.Width - cell*board.Columns) / 2
	offsetY := (size.Height - cell*board.Rows) / 2

	r.b.root.Resize(size)

	ringSize := cell * 0.6
	ringOffset := (cell - ringSize) / 2
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Columns; col++ {
			x := offsetX + float32(col)*cell
			y := offsetY + float32(row)*cell

			r.b.cells[row][col].Move(fyne.NewPos(x, y))
			r.b.cells[row][col].Resize(fyne.NewSize(cell, cell))

			r.b.rings[row][col].Move(fyne.NewPos(x+ringOffset, y+ringOffset))
			r.b.rings[row][col].Resize(fyne.NewSize(ringSize, ringSize))
		}
	}
}
