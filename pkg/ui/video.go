package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

var errorColor = color.NRGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}

// VideoDisplay shows the annotated frame, or an error in place of it when the
// frame could not be produced.
type VideoDisplay struct {
	widget.BaseWidget

	// OnTapped receives taps on the frame, in frame pixel coordinates.
	OnTapped func(image.Point)

	// mu ensures we don't read / write the image at the same time
	mu      sync.Mutex
	image   *canvas.Image
	message *canvas.Text
}

// NewVideoDisplay is used to create widget instance
func NewVideoDisplay() *VideoDisplay {
	v := &VideoDisplay{}
	v.ExtendBaseWidget(v)

	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(320, 240))

	v.message = canvas.NewText("", errorColor)
	v.message.Alignment = fyne.TextAlignCenter
	v.message.TextStyle = fyne.TextStyle{Bold: true}
	v.message.Hidden = true
	return v
}

// UpdateFrame replaces the displayed frame and clears any error. Call from
// the fyne goroutine.
func (v *VideoDisplay) UpdateFrame(img image.Image) {
	v.mu.Lock()
	v.image.Image = img
	v.image.Hidden = false
	v.message.Hidden = true
	v.mu.Unlock()

	v.Refresh()
}

// ShowError blanks the frame and shows msg instead, so a stale frame is never
// left on screen.
func (v *VideoDisplay) ShowError(msg string) {
	v.mu.Lock()
	v.image.Image = nil
	v.image.Hidden = true
	v.message.Text = msg
	v.message.Hidden = false
	v.mu.Unlock()

	v.Refresh()
}

// Tapped maps the tap from widget space onto the shown frame.
func (v *VideoDisplay) Tapped(ev *fyne.PointEvent) {
	v.mu.Lock()
	img := v.image.Image
	v.mu.Unlock()
	if img == nil || v.OnTapped == nil {
		return
	}
	if p, ok := framePoint(v.Size(), img.Bounds().Size(), ev.Position); ok {
		v.OnTapped(p)
	}
}

// framePoint undoes the contain fill: the frame is scaled to fit area and
// centred. ok is false for positions in the letterbox.
func framePoint(area fyne.Size, frame image.Point, pos fyne.Position) (image.Point, bool) {
	if frame.X <= 0 || frame.Y <= 0 || area.Width <= 0 || area.Height <= 0 {
		return image.Point{}, false
	}
	scale := min(area.Width/float32(frame.X), area.Height/float32(frame.Y))
	offX := (area.Width - float32(frame.X)*scale) / 2
	offY := (area.Height - float32(frame.Y)*scale) / 2

	x := int((pos.X - offX) / scale)
	y := int((pos.Y - offY) / scale)
	if pos.X < offX || pos.Y < offY || x >= frame.X || y >= frame.Y {
		return image.Point{}, false
	}
	return image.Pt(x, y), true
}

// CreateRenderer is used to create a video renderer
func (v *VideoDisplay) CreateRenderer() fyne.WidgetRenderer {
	return &videoRenderer{v}
}

type videoRenderer struct {
	v *VideoDisplay
}

// Destroy implements [fyne.WidgetRenderer].
func (r *videoRenderer) Destroy() {}

// MinSize implements [fyne.WidgetRenderer].
func (r *videoRenderer) MinSize() fyne.Size {
	return r.v.image.MinSize()
}

// Objects implements [fyne.WidgetRenderer].
func (r *videoRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.image, r.v.message}
}

// Refresh implements [fyne.WidgetRenderer].
func (r *videoRenderer) Refresh() {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.image.Refresh()
	r.v.message.Refresh()
}

func (r *videoRenderer) Layout(s fyne.Size) {
	r.v.image.Resize(s)
	r.v.message.Resize(s)
}
