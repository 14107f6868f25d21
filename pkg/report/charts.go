package report

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/intothevoid/ocrscope/pkg/results"
	"github.com/intothevoid/ocrscope/pkg/statemachine"
)

// NoisePoints returns (frame, noise) for every frame that carries a board noise
// value.
func NoisePoints(store *results.Store) plotter.XYs {
	pts := make(plotter.XYs, 0, store.NumFrames())
	for i := 0; i < store.NumFrames(); i++ {
		if n := store.BoardNoise(i); n.Ok() {
			pts = append(pts, plotter.XY{X: float64(i), Y: n.Value})
		}
	}
	return pts
}

// NoisePlot saves a line chart of board noise per frame to path. The image
// format follows the file extension.
func NoisePlot(store *results.Store, title, path string) error {
	pts := NoisePoints(store)
	if len(pts) == 0 {
		return fmt.Errorf("no board noise values in %d frames", store.NumFrames())
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Board Noise", title)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Noise"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save noise plot: %w", err)
	}
	return nil
}

// StateTimeline writes an HTML page charting the derived run length and
// activation count for every frame.
func StateTimeline(view *statemachine.View, title string, w io.Writer) error {
	n := view.NumFrames()
	frames := make([]string, n)
	runs := make([]opts.LineData, n)
	activations := make([]opts.LineData, n)
	for i := 0; i < n; i++ {
		frames[i] = strconv.Itoa(i)
		state := view.Store().AttributeText(i, results.KeyStateID)
		runs[i] = opts.LineData{Name: state, Value: view.RunLength(i)}
		activations[i] = opts.LineData{Name: state, Value: view.ActivationCount(i)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "State Timeline", Subtitle: fmt.Sprintf("%s frames=%d", title, n)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(frames).
		AddSeries("run length", runs).
		AddSeries("activation", activations)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render state timeline: %w", err)
	}
	return nil
}
