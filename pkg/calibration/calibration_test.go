package calibration

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionsYAML = `
rects:
  board:
    left: 10
    top: 20
    right: 110
    bottom: 220
  next:
    left: 150
    top: 40
    right: 190
    bottom: 70
`

const pointsYAML = `
points:
  board:
    - {x: 15, y: 25}
    - {x: 25, y: 25}
    - {x: 35, y: 25}
  shine:
    - {x: 16, y: 26}
`

func writeCalibration(t *testing.T, regions, points string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	regionsPath := filepath.Join(dir, "calibration.yaml")
	pointsPath := filepath.Join(dir, "calibration-plus.yaml")
	if regions != "" {
		require.NoError(t, os.WriteFile(regionsPath, []byte(regions), 0o644))
	}
	if points != "" {
		require.NoError(t, os.WriteFile(pointsPath, []byte(points), 0o644))
	}
	return regionsPath, pointsPath
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCalibration(t, regionsYAML, pointsYAML))
	require.NoError(t, err)

	require.Len(t, c.Regions, 2)
	assert.Equal(t, Region{Name: "board", Left: 10, Top: 20, Right: 110, Bottom: 220}, c.Regions["board"])
	assert.Equal(t, image.Rect(150, 40, 190, 70), c.Regions["next"].Rect())

	assert.Equal(t, []string{"board", "shine"}, c.GroupNames())
	assert.Equal(t, []Point{{15, 25}, {25, 25}, {35, 25}}, c.Groups[GroupBoard].Points)

	regions := c.SortedRegions()
	require.Len(t, regions, 2)
	assert.Equal(t, "board", regions[0].Name)
	assert.Equal(t, "next", regions[1].Name)
}

func TestLoadPartial(t *testing.T) {
	c, err := Load(writeCalibration(t, "", pointsYAML))
	require.NoError(t, err)
	assert.Empty(t, c.Regions)
	assert.Len(t, c.Groups, 2)

	c, err = Load(writeCalibration(t, regionsYAML, ""))
	require.NoError(t, err)
	assert.Len(t, c.Regions, 2)
	assert.Empty(t, c.Groups)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeCalibration(t, "", ""))
	assert.ErrorIs(t, err, ErrNoCalibration)

	_, err = Load(writeCalibration(t, "rects: [1, 2", pointsYAML))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCalibration)
}

func TestCheckCardinality(t *testing.T) {
	c, err := Load(writeCalibration(t, regionsYAML, pointsYAML))
	require.NoError(t, err)

	assert.NoError(t, c.CheckCardinality(map[string]int{GroupBoard: 3}))
	assert.NoError(t, c.CheckCardinality(map[string]int{GroupNext: 200}), "missing groups are not mismatches")

	err = c.CheckCardinality(map[string]int{GroupBoard: 200, GroupShine: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `point group "board" has 3 points, grid has 200 cells`)
	assert.Contains(t, err.Error(), `point group "shine" has 1 points, grid has 2 cells`)
}

func TestNearest(t *testing.T) {
	c, err := Load(writeCalibration(t, regionsYAML, pointsYAML))
	require.NoError(t, err)

	index, dist, ok := c.Nearest(GroupBoard, image.Pt(27, 24))
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.InDelta(t, 2.236, dist, 0.001)

	_, _, ok = c.Nearest("missing", image.Pt(0, 0))
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, distance(image.Pt(0, 0), image.Pt(3, 4)))
	assert.Equal(t, 5.0, distance(image.Pt(3, 4), image.Pt(0, 0)))
	assert.Equal(t, 0.0, distance(image.Pt(7, 7), image.Pt(7, 7)))
}

func TestNearestNilCalibration(t *testing.T) {
	var c *Calibration
	_, _, ok := c.Nearest(GroupBoard, image.Pt(0, 0))
	assert.False(t, ok)
}
