package video

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/intothevoid/ocrscope/pkg/overlay"
)

// MatCanvas draws overlay shapes straight onto a Mat.
type MatCanvas struct {
	Mat *gocv.Mat
}

var _ overlay.Canvas = MatCanvas{}

func (c MatCanvas) Circle(center image.Point, radius int, col color.RGBA, thickness int) {
	gocv.Circle(c.Mat, center, radius, col, thickness)
}

func (c MatCanvas) Rectangle(r image.Rectangle, col color.RGBA, thickness int) {
	gocv.Rectangle(c.Mat, r, col, thickness)
}

// Annotate fetches frame index from src and renders r onto it. A nil r returns
// the raw frame. The caller closes the returned Mat.
func Annotate(src Source, r *overlay.Renderer, index int) (gocv.Mat, error) {
	mat, err := src.Frame(index)
	if err != nil {
		return mat, err
	}
	if r != nil {
		r.Render(MatCanvas{Mat: &mat}, index)
	}
	return mat, nil
}

// EncodePNG encodes mat as PNG.
func EncodePNG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory freed by Close
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// ToImage converts mat for display in a fyne canvas.
func ToImage(mat gocv.Mat) (image.Image, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}
