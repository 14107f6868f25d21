package testcase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intothevoid/ocrscope/pkg/results"
)

func ptr[T any](v T) *T { return &v }

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "/data", Name: "level18"}

	assert.Equal(t, filepath.Join("/data", "test-cases", "level18", "config.yaml"), l.ConfigPath())
	assert.Equal(t, filepath.Join("/data", "test-output", "level18", "calibration.yaml"), l.RegionsPath())
	assert.Equal(t, filepath.Join("/data", "test-output", "level18", "calibration-plus.yaml"), l.PointsPath())
	assert.Equal(t, filepath.Join("/data", "test-output", "level18", "test-results.yaml"), l.ResultsPath())
}

func TestFindVideoFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "b.MP4", "a.mov"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0.mov"), 0o755))

	path, err := FindVideoFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.mov"), path)

	l := Layout{Root: t.TempDir(), Name: "x"}
	require.NoError(t, os.MkdirAll(l.CaseDir(), 0o755))
	_, err = l.VideoPath()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

const configYAML = `
calibration:
  frame: 120
  x: 340
  y: 96
verification:
  start:
    level: 18
    currentPiece: t
    nextPiece: L
  end:
    level: 19
    lines: 12
    score: 48000
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, CalibrationClick{Frame: 120, X: 340, Y: 96}, cfg.Calibration)
	assert.Equal(t, ptr(18), cfg.Verification.Start.Level)
	assert.Equal(t, "L", cfg.Verification.Start.NextPiece)
	assert.Equal(t, ptr(48000), cfg.Verification.End.Score)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerify(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{Level: ptr(-1), NextType: ptr("E")},
		{Level: ptr(18), NextType: ptr("L"), BoardOnlyType: ptr("T")},
		{Level: ptr(18), NextType: ptr("I")},
		{Level: ptr(19)},
		{Level: ptr(-1)},
		{},
	})
	cfg := &Config{Verification: Verification{
		Start: StartTruth{Level: ptr(18), CurrentPiece: "t", NextPiece: "L"},
		End:   EndTruth{Level: ptr(19), Lines: ptr(12), Score: ptr(48000)},
	}}

	checks := Verify(store, cfg)
	require.Len(t, checks, 6)

	assert.Equal(t, Check{Name: "start.level", Expected: "18", Actual: "18", Frame: 1, Outcome: Pass}, checks[0])
	assert.Equal(t, Check{Name: "start.currentPiece", Expected: "t", Actual: "T", Frame: 1, Outcome: Pass}, checks[1])
	assert.Equal(t, Check{Name: "start.nextPiece", Expected: "L", Actual: "L", Frame: 1, Outcome: Pass}, checks[2])
	assert.Equal(t, Check{Name: "end.level", Expected: "19", Actual: "19", Frame: 3, Outcome: Pass}, checks[3])
	assert.Equal(t, Unchecked, checks[4].Outcome)
	assert.Equal(t, Unchecked, checks[5].Outcome)
	assert.False(t, Failed(checks))
}

func TestVerifyFailures(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{Level: ptr(-1), NextType: ptr("S")},
	})
	cfg := &Config{Verification: Verification{
		Start: StartTruth{Level: ptr(18), NextPiece: "L"},
	}}

	checks := Verify(store, cfg)
	require.Len(t, checks, 2)
	assert.Equal(t, Fail, checks[0].Outcome)
	assert.Equal(t, "never determined", checks[0].Reason)
	assert.Equal(t, Fail, checks[1].Outcome)
	assert.Equal(t, "S", checks[1].Actual)
	assert.True(t, Failed(checks))
	assert.Contains(t, checks[1].String(), "start.nextPiece")
}

func TestVerifyEmptyConfig(t *testing.T) {
	assert.Empty(t, Verify(results.NewStore(nil), &Config{}))
}
