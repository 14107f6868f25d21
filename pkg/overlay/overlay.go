// Package overlay projects per-frame grid values onto calibration points.
//
// Rendering is a pure function of (canvas, frame, calibration, record store):
// regions are outlined first, then each layer paints its point group in
// declaration order, so later layers (rings) stay visible on top of earlier
// ones (base markers).
package overlay

import (
	"image"
	"image/color"

	"github.com/intothevoid/ocrscope/pkg/calibration"
	"github.com/intothevoid/ocrscope/pkg/results"
)

// Canvas is the drawing surface an overlay is rendered onto. Thickness < 0 fills
// the shape, matching OpenCV.
type Canvas interface {
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
}

// GridFunc reports whether mino is set at frame.
type GridFunc func(frame, mino int) bool

// Layer paints one point group according to a grid predicate.
type Layer struct {
	Group     string
	Grid      GridFunc
	Radius    int
	Thickness int
	On        color.RGBA
	// Off is drawn for unset cells when DrawOff is true.
	Off     color.RGBA
	DrawOff bool
}

var (
	Red    = color.RGBA{R: 255, A: 255}
	Green  = color.RGBA{G: 255, A: 255}
	Blue   = color.RGBA{B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, A: 255}
	Grey   = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// GroupColors is the marker colour for static (frame independent) point groups.
var GroupColors = map[string]color.RGBA{
	calibration.GroupBoard: Red,
	calibration.GroupShine: Green,
	calibration.GroupNext:  Blue,
}

// RegionColor outlines calibration regions.
var RegionColor = Green

// Renderer draws calibration overlays for a frame.
type Renderer struct {
	Calibration *calibration.Calibration
	Layers      []Layer
	// DefaultColor is used for static groups missing from GroupColors.
	DefaultColor color.RGBA
	// StaticRadius is the radius of frame independent point markers.
	StaticRadius int
}

// NewRenderer returns a renderer with the given layers. With no layers every
// point group is drawn as static markers, which is what bounds mode shows.
func NewRenderer(c *calibration.Calibration, layers ...Layer) *Renderer {
	return &Renderer{
		Calibration:  c,
		Layers:       layers,
		DefaultColor: White,
		StaticRadius: 1,
	}
}

// DefaultLayers pairs the board group with the binary board (filled base
// markers) and the stable board (rings), and the next group with the preview grid.
func DefaultLayers(store *results.Store) []Layer {
	return []Layer{
		{
			Group:     calibration.GroupBoard,
			Grid:      store.Mino,
			Radius:    2,
			Thickness: -1,
			On:        Red,
			Off:       Grey,
			DrawOff:   true,
		},
		{
			Group:     calibration.GroupBoard,
			Grid:      store.StableMino,
			Radius:    5,
			Thickness: 1,
			On:        Yellow,
		},
		{
			Group:     calibration.GroupNext,
			Grid:      store.NextMino,
			Radius:    2,
			Thickness: -1,
			On:        Blue,
			Off:       Grey,
			DrawOff:   true,
		},
	}
}

// Render annotates canvas for frame.
func (r *Renderer) Render(canvas Canvas, frame int) {
	if r.Calibration == nil {
		return
	}

	// 1. Regions do not depend on frame content.
	for _, region := range r.Calibration.SortedRegions() {
		canvas.Rectangle(region.Rect(), RegionColor, 1)
	}

	// 2. Groups without a layer get static markers.
	layered := map[string]bool{}
	for _, l := range r.Layers {
		layered[l.Group] = true
	}
	for _, name := range r.Calibration.GroupNames() {
		if layered[name] {
			continue
		}
		c, ok := GroupColors[name]
		if !ok {
			c = r.DefaultColor
		}
		for _, p := range r.Calibration.Groups[name].Points {
			canvas.Circle(p.Pt(), r.StaticRadius, c, -1)
		}
	}

	// 3. Layers in declaration order: base markers before rings.
	for _, l := range r.Layers {
		r.drawLayer(canvas, l, frame)
	}
}

func (r *Renderer) drawLayer(canvas Canvas, l Layer, frame int) {
	g, ok := r.Calibration.Groups[l.Group]
	if !ok || l.Grid == nil {
		return
	}
	n := len(g.Points)
	if n > results.GridSize {
		n = results.GridSize
	}
	for i := 0; i < n; i++ {
		switch {
		case l.Grid(frame, i):
			canvas.Circle(g.Points[i].Pt(), l.Radius, l.On, l.Thickness)
		case l.DrawOff:
			canvas.Circle(g.Points[i].Pt(), l.Radius, l.Off, l.Thickness)
		}
	}
}

// ExpectedCardinality returns the grid length each layered group must match.
func (r *Renderer) ExpectedCardinality() map[string]int {
	out := map[string]int{}
	for _, l := range r.Layers {
		out[l.Group] = results.GridSize
	}
	return out
}
