package calibration

import (
	"image"
	"math"
)

func distance(a, b image.Point) float64 {
	d := b.Sub(a)
	return math.Hypot(float64(d.X), float64(d.Y))
}

// Nearest returns the index of the point in group closest to pos, and its
// distance. ok is false when the group is unknown or empty. Ties go to the
// lower index.
func (c *Calibration) Nearest(group string, pos image.Point) (index int, dist float64, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	g, found := c.Groups[group]
	if !found || len(g.Points) == 0 {
		return 0, 0, false
	}

	dist = math.Inf(1)
	for i, p := range g.Points {
		if d := distance(p.Pt(), pos); d < dist {
			index, dist = i, d
		}
	}
	return index, dist, true
}
