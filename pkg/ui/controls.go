package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/intothevoid/ocrscope/pkg/playback"
)

// StatePanel shows the report text for the current frame with a swatch for
// the next piece.
type StatePanel struct {
	widget.BaseWidget

	text    *widget.Label
	next    *widget.Label
	pointer *widget.Label
	swatch  *canvas.Rectangle
}

func NewStatePanel() *StatePanel {
	p := &StatePanel{
		text:    widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}),
		next:    widget.NewLabel(""),
		pointer: widget.NewLabel("Tap the frame to inspect a mino"),
		swatch:  canvas.NewRectangle(unknownPiece),
	}
	p.text.Wrapping = fyne.TextWrapWord
	p.swatch.SetMinSize(fyne.NewSize(16, 16))
	p.ExtendBaseWidget(p)
	return p
}

// SetReport replaces the panel contents. nextPiece is the display text of the
// next piece field. Call from the fyne goroutine.
func (p *StatePanel) SetReport(text, nextPiece string) {
	p.text.SetText(text)
	p.next.SetText("Next: " + PieceName(nextPiece))
	p.swatch.FillColor = PieceColor(nextPiece)
	p.swatch.Refresh()
}

// SetPointer shows what lies under the last tap. Call from the fyne goroutine.
func (p *StatePanel) SetPointer(text string) {
	p.pointer.SetText(text)
}

func (p *StatePanel) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewHBox(p.swatch, p.next)
	return widget.NewSimpleRenderer(container.NewBorder(header, p.pointer, nil, nil, container.NewVScroll(p.text)))
}

// PlaybackBar holds the play button, scrub slider and frame counter.
type PlaybackBar struct {
	widget.BaseWidget

	// OnToggle is called when the play button is pressed.
	OnToggle func()
	// OnSeek is called when the operator drags the slider.
	OnSeek func(frame int)

	button *widget.Button
	slider *widget.Slider
	label  *widget.Label
	frames int

	// updating suppresses OnSeek while SetState moves the slider.
	updating bool
}

func NewPlaybackBar(frames int) *PlaybackBar {
	b := &PlaybackBar{frames: frames}
	b.button = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if b.OnToggle != nil {
			b.OnToggle()
		}
	})
	b.slider = widget.NewSlider(0, float64(max(frames-1, 0)))
	b.slider.Step = 1
	b.slider.OnChanged = func(v float64) {
		if b.updating || b.OnSeek == nil {
			return
		}
		b.OnSeek(int(v))
	}
	b.label = widget.NewLabel(frameLabel(0, frames))
	b.ExtendBaseWidget(b)
	return b
}

// SetState reflects a playback state. Call from the fyne goroutine.
func (b *PlaybackBar) SetState(st playback.State) {
	b.updating = true
	b.slider.SetValue(float64(st.Frame))
	b.updating = false

	if st.Playing {
		b.button.SetIcon(theme.MediaPauseIcon())
	} else {
		b.button.SetIcon(theme.MediaPlayIcon())
	}
	b.label.SetText(frameLabel(st.Frame, b.frames))
}

func frameLabel(frame, frames int) string {
	return fmt.Sprintf("%d / %d", frame, max(frames-1, 0))
}

func (b *PlaybackBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, b.button, b.label, b.slider))
}
