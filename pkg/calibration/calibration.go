package calibration

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Well-known point group names.
const (
	GroupBoard = "board"
	GroupNext  = "next"
	GroupShine = "shine"
)

// ErrNoCalibration is returned when neither calibration file exists.
var ErrNoCalibration = errors.New("no calibration data found")

// Point is a pixel coordinate in the source video.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Pt converts p to an image.Point.
func (p Point) Pt() image.Point {
	return image.Pt(p.X, p.Y)
}

// PointGroup is a named, ordered set of points. For grid groups, point i is the
// pixel position of mino i.
type PointGroup struct {
	Name   string
	Points []Point
}

// Region is a named axis-aligned pixel rectangle.
type Region struct {
	Name   string
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Calibration is the read-only calibration data for one test case.
type Calibration struct {
	Groups  map[string]PointGroup
	Regions map[string]Region
}

// GroupNames returns the point group names in sorted order.
func (c *Calibration) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedRegions returns the regions ordered by name so drawing is deterministic.
func (c *Calibration) SortedRegions() []Region {
	out := make([]Region, 0, len(c.Regions))
	for _, r := range c.Regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type regionsFile struct {
	Rects map[string]Region `yaml:"rects"`
}

type pointsFile struct {
	Points map[string][]Point `yaml:"points"`
}

// LoadRegions reads the rects section of a calibration.yaml file.
func LoadRegions(path string) (map[string]Region, error) {
	var f regionsFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	regions := make(map[string]Region, len(f.Rects))
	for name, r := range f.Rects {
		r.Name = name
		regions[name] = r
	}
	return regions, nil
}

// LoadPoints reads the points section of a calibration-plus.yaml file.
func LoadPoints(path string) (map[string]PointGroup, error) {
	var f pointsFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	groups := make(map[string]PointGroup, len(f.Points))
	for name, pts := range f.Points {
		groups[name] = PointGroup{Name: name, Points: pts}
	}
	return groups, nil
}

// Load reads regions from regionsPath and point groups from pointsPath. Either
// file may be missing, but not both.
func Load(regionsPath, pointsPath string) (*Calibration, error) {
	c := &Calibration{
		Groups:  map[string]PointGroup{},
		Regions: map[string]Region{},
	}
	found := false

	regions, err := LoadRegions(regionsPath)
	switch {
	case err == nil:
		c.Regions = regions
		found = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	groups, err := LoadPoints(pointsPath)
	switch {
	case err == nil:
		c.Groups = groups
		found = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf("%w: %s, %s", ErrNoCalibration, regionsPath, pointsPath)
	}
	return c, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read calibration: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// CheckCardinality compares grid point groups against the grid length they are
// paired with. Groups that are missing are not reported. The returned error
// joins one error per mismatched group.
func (c *Calibration) CheckCardinality(expected map[string]int) error {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		g, ok := c.Groups[name]
		if !ok {
			continue
		}
		if want := expected[name]; len(g.Points) != want {
			errs = append(errs, fmt.Errorf("point group %q has %d points, grid has %d cells", name, len(g.Points), want))
		}
	}
	return errors.Join(errs...)
}
