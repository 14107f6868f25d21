package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/intothevoid/ocrscope/pkg/results"
	"github.com/intothevoid/ocrscope/pkg/statemachine"
)

func ptr[T any](v T) *T { return &v }

func grid(marker byte, cells ...int) *string {
	b := []byte(strings.Repeat("0", results.GridSize))
	for _, c := range cells {
		b[c] = marker
	}
	return ptr(string(b))
}

func sampleView() *statemachine.View {
	return statemachine.NewView(results.NewStore([]results.FrameRecord{
		{
			StateID:     ptr("B"),
			BinaryBoard: grid('1', 0, 1, 2),
			StableBoard: grid('2', 0, 1, 2, 3),
			BoardNoise:  ptr(0.25),
			NextType:    ptr("T"),
			Level:       ptr(18),
			EventStatuses: []results.EventStatus{
				{Name: "lineClear", PreconditionMet: true},
			},
			Packets: []string{"p1"},
		},
		{
			StateID:       ptr("B"),
			NextType:      ptr("E"),
			BoardOnlyType: ptr("L"),
			Level:         ptr(-1),
		},
		{
			StateID:    ptr("A"),
			BoardNoise: ptr(0.5),
			Logs:       []string{"reset"},
		},
	}))
}

func TestBuild(t *testing.T) {
	view := sampleView()

	want := Report{
		Frame:           0,
		Total:           3,
		State:           "B",
		RunLength:       1,
		ActivationCount: 1,
		Events:          []results.EventStatus{{Name: "lineClear", PreconditionMet: true}},
		BoardNoise:      "0.25",
		NextType:        "T",
		BoardOnlyType:   results.NotFetched,
		Level:           "18",
		Packets:         []string{"p1"},
		Logs:            []string{},
		Occupied:        3,
		Disagreements:   1,
	}
	if diff := cmp.Diff(want, Build(view, 0)); diff != "" {
		t.Errorf("Build(0) mismatch (-want +got):\n%s", diff)
	}

	r := Build(view, 1)
	assert.Equal(t, 2, r.RunLength)
	assert.Equal(t, results.PieceUndetermined, r.NextType)
	assert.Equal(t, "L", r.BoardOnlyType)
	assert.Equal(t, results.LevelUndetermined, r.Level)
	assert.Equal(t, results.NotFetched, r.BoardNoise)
}

func TestBuildOutOfRange(t *testing.T) {
	r := Build(sampleView(), 10)
	assert.Equal(t, "", r.State)
	assert.Equal(t, -1, r.RunLength)
	assert.Equal(t, -1, r.ActivationCount)
	assert.Equal(t, "-1", r.BoardNoise)
	assert.Equal(t, "", r.NextType)
	assert.Equal(t, "", r.Level)
	assert.Empty(t, r.Events)
	assert.Zero(t, r.Occupied)
}

func TestReportJSON(t *testing.T) {
	data, err := json.Marshal(Build(sampleView(), 2))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "A", got["state"])
	assert.Equal(t, float64(2), got["activationCount"])
	assert.Equal(t, []any{"reset"}, got["logs"])
}

func TestText(t *testing.T) {
	text := Build(sampleView(), 0).Text()

	assert.Contains(t, text, "Frame: 0 / 2\n")
	assert.Contains(t, text, "State: B (run 1, activation 1)\n")
	assert.Contains(t, text, "Next: T\n")
	assert.Contains(t, text, "Board piece: (Not fetched)\n")
	assert.Contains(t, text, "  lineClear pre=yes persist=no\n")
	assert.Contains(t, text, "Packets:\n  p1\n")
	assert.NotContains(t, text, "Logs:")
}

func TestNoisePointsSkipsAbsentFrames(t *testing.T) {
	pts := NoisePoints(sampleView().Store())
	assert.Equal(t, plotter.XYs{{X: 0, Y: 0.25}, {X: 2, Y: 0.5}}, pts)
}

func TestNoisePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.png")
	require.NoError(t, NoisePlot(sampleView().Store(), "case", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	err = NoisePlot(results.NewStore([]results.FrameRecord{{}}), "empty", path)
	assert.Error(t, err)
}

func TestStateTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StateTimeline(sampleView(), "case", &buf))

	html := buf.String()
	assert.Contains(t, html, "State Timeline")
	assert.Contains(t, html, "run length")
	assert.Contains(t, html, "activation")
}
