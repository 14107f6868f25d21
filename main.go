package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/intothevoid/ocrscope/pkg/playback"
	"github.com/intothevoid/ocrscope/pkg/ui"
	"github.com/intothevoid/ocrscope/pkg/video"
)

// A bare player: go run . <video>. Space plays and pauses, arrows step, q quits.
// Playback loops back to the first frame.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <video>\n", os.Args[0])
		os.Exit(2)
	}
	src, err := video.Open(os.Args[1])
	if err != nil {
		slog.Error("player: failed to open video", "error", err)
		os.Exit(1)
	}
	defer src.Close()

	myApp := app.New()
	window := myApp.NewWindow("ocrscope") // 1. Setup the video widget
	display := ui.NewVideoDisplay()
	window.SetContent(display) // 2. Start the playback loop

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan playback.Event, 8)
	send := func(ev playback.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}
	window.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		switch k.Name {
		case fyne.KeySpace:
			send(playback.Event{Kind: playback.TogglePlay})
		case fyne.KeyLeft:
			send(playback.Event{Kind: playback.Retreat})
		case fyne.KeyRight:
			send(playback.Event{Kind: playback.Advance})
		case fyne.KeyQ, fyne.KeyEscape:
			send(playback.Event{Kind: playback.Quit})
		}
	})

	controller := playback.NewController(playback.Config{Frames: src.NumFrames(), Tick: playback.WrapToStart})
	controller.OnError = func(st playback.State, err error) {
		slog.Error("player: frame unavailable, playback paused", "frame", st.Frame, "error", err)
		msg := fmt.Sprintf("Frame %d unavailable: %v", st.Frame, err)
		fyne.Do(func() { display.ShowError(msg) })
	}
	ticks := playback.NewTicks()
	go playback.Ticker(ctx, playback.DefaultTickInterval, ticks)
	go func() {
		_ = controller.Run(ctx, events, ticks, func(st playback.State) error {
			mat, err := src.Frame(st.Frame)
			defer mat.Close()
			if err != nil {
				return err
			}
			golangImage, err := video.ToImage(mat)
			if err != nil {
				return err
			}
			fyne.Do(func() { // Update Fyne thread-safely
				display.UpdateFrame(golangImage)
			})
			return nil
		})
		cancel()
		fyne.Do(myApp.Quit)
	}()

	window.ShowAndRun()
}
