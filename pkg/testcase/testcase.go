// Package testcase locates the files of a recorded test case and checks the
// recognition output against the case's ground truth.
package testcase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout resolves the paths of one test case under a repository root:
//
//	<root>/test-cases/<name>/config.yaml
//	<root>/test-cases/<name>/<video>.mov|.mp4
//	<root>/test-output/<name>/calibration.yaml
//	<root>/test-output/<name>/calibration-plus.yaml
//	<root>/test-output/<name>/test-results.yaml
type Layout struct {
	Root string
	Name string
}

func (l Layout) CaseDir() string {
	return filepath.Join(l.Root, "test-cases", l.Name)
}

func (l Layout) OutputDir() string {
	return filepath.Join(l.Root, "test-output", l.Name)
}

func (l Layout) ConfigPath() string {
	return filepath.Join(l.CaseDir(), "config.yaml")
}

func (l Layout) RegionsPath() string {
	return filepath.Join(l.OutputDir(), "calibration.yaml")
}

func (l Layout) PointsPath() string {
	return filepath.Join(l.OutputDir(), "calibration-plus.yaml")
}

func (l Layout) ResultsPath() string {
	return filepath.Join(l.OutputDir(), "test-results.yaml")
}

// VideoPath returns the case's video file.
func (l Layout) VideoPath() (string, error) {
	return FindVideoFile(l.CaseDir())
}

// FindVideoFile returns the first .mov or .mp4 file in dir, by name.
func FindVideoFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mov", ".mp4":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .mov or .mp4 file in %s: %w", dir, os.ErrNotExist)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// Config is a test case's config.yaml.
type Config struct {
	Calibration  CalibrationClick `yaml:"calibration"`
	Verification Verification     `yaml:"verification"`
}

// CalibrationClick is the frame and pixel the calibration was taken from.
type CalibrationClick struct {
	Frame int `yaml:"frame"`
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
}

// Verification is the ground truth at the start and end of the recording.
// Nil fields are not checked.
type Verification struct {
	Start StartTruth `yaml:"start"`
	End   EndTruth   `yaml:"end"`
}

type StartTruth struct {
	Level        *int   `yaml:"level"`
	CurrentPiece string `yaml:"currentPiece"`
	NextPiece    string `yaml:"nextPiece"`
}

type EndTruth struct {
	Level *int `yaml:"level"`
	Lines *int `yaml:"lines"`
	Score *int `yaml:"score"`
}

// LoadConfig reads a config.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test case config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}
