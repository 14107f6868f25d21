package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/intothevoid/ocrscope/pkg/board"
	"github.com/intothevoid/ocrscope/pkg/config"
	"github.com/intothevoid/ocrscope/pkg/playback"
	"github.com/intothevoid/ocrscope/pkg/report"
	"github.com/intothevoid/ocrscope/pkg/server"
	"github.com/intothevoid/ocrscope/pkg/ui"
	"github.com/intothevoid/ocrscope/pkg/video"
)

func main() {
	config.LoadEnv()

	testCase := flag.String("case", config.String(config.EnvCase, ""), "Test case name (required)")
	mode := flag.String("mode", playback.ModeOutput, "Viewing mode: output, bounds, video")
	root := flag.String("root", config.String(config.EnvRoot, ".."), "Directory holding test-cases/ and test-output/")
	resultsPath := flag.String("results", "", "Frame record file (default test-output/<case>/test-results.yaml)")
	serveAddr := flag.String("serve", config.String(config.EnvServe, ""), "Serve frames and reports on this address, e.g. :5001")
	strict := flag.Bool("strict", false, "Refuse to play when calibration and grid sizes differ")
	preload := flag.Bool("preload", false, "Decode the whole video into memory before playback")
	tick := flag.Duration("tick", playback.DefaultTickInterval, "Delay between frames during playback")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if *testCase == "" {
		fmt.Fprintf(os.Stderr, "Error: -case is required\n\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if _, err := playback.ConfigForMode(*mode, 0); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	s, err := load(options{
		testCase:    *testCase,
		mode:        *mode,
		root:        *root,
		resultsPath: *resultsPath,
		strict:      *strict,
		preload:     *preload,
	})
	if err != nil {
		slog.Error("viewer: failed to load test case", "case", *testCase, "error", err)
		os.Exit(1)
	}
	defer s.source.Close()

	run(s, *serveAddr, *tick)
}

func run(s *session, serveAddr string, tick time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Setup the Fyne UI App
	myApp := app.New()
	window := myApp.NewWindow(fmt.Sprintf("%s: %s mode", s.layout.Name, s.mode))

	// 2. Widgets
	display := ui.NewVideoDisplay()
	boardWidget := ui.NewBoardWidget()
	panel := ui.NewStatePanel()
	bar := ui.NewPlaybackBar(s.playback.Frames)

	side := container.NewVSplit(boardWidget, panel)
	side.Offset = 0.5
	top := container.NewHSplit(display, side)
	top.Offset = 0.7
	if s.mode == playback.ModeVideo {
		window.SetContent(container.NewBorder(nil, bar, nil, nil, display))
	} else {
		window.SetContent(container.NewBorder(nil, bar, nil, nil, top))
	}

	// 3. Optional frame server
	var srv *server.Server
	if serveAddr != "" {
		size := s.source.Size()
		srv = server.New(server.Info{
			Frames:   s.playback.Frames,
			Width:    size.X,
			Height:   size.Y,
			TestCase: s.layout.Name,
			Mode:     s.mode,
		}, s.png, func(n int) any { return s.report(n) })
		go func() {
			if err := srv.Run(ctx, serveAddr); err != nil {
				slog.Error("viewer: frame server stopped", "error", err)
			}
		}()
	}

	// 4. Input events
	events := make(chan playback.Event, 8)
	send := func(ev playback.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}
	window.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		switch k.Name {
		case fyne.KeyLeft:
			send(playback.Event{Kind: playback.Retreat})
		case fyne.KeyRight:
			send(playback.Event{Kind: playback.Advance})
		case fyne.KeySpace:
			send(playback.Event{Kind: playback.TogglePlay})
		case fyne.KeyQ, fyne.KeyEscape:
			send(playback.Event{Kind: playback.Quit})
		}
	})
	bar.OnToggle = func() { send(playback.Event{Kind: playback.TogglePlay}) }
	bar.OnSeek = func(frame int) { send(playback.Seek(frame)) }

	// 5. The playback loop
	controller := playback.NewController(s.playback)
	controller.OnError = func(st playback.State, err error) {
		slog.Error("viewer: frame unavailable, playback paused", "frame", st.Frame, "error", err)
		msg := fmt.Sprintf("Frame %d unavailable: %v", st.Frame, err)
		fyne.Do(func() {
			display.ShowError(msg)
			bar.SetState(st)
		})
	}
	if s.renderer != nil {
		display.OnTapped = func(p image.Point) {
			cell, ok := report.Locate(s.store, s.renderer.Calibration, controller.Snapshot().Frame, p)
			if !ok {
				panel.SetPointer(fmt.Sprintf("(%d, %d): no calibrated mino", p.X, p.Y))
				return
			}
			panel.SetPointer(fmt.Sprintf("(%d, %d): %s", p.X, p.Y, cell))
		}
	}
	render := func(st playback.State) error {
		mat, err := video.Annotate(s.source, s.renderer, st.Frame)
		defer mat.Close()
		if err != nil {
			return err
		}
		img, err := video.ToImage(mat)
		if err != nil {
			return err
		}

		rep := s.report(st.Frame)
		if s.mode != playback.ModeVideo {
			boardWidget.UpdateBoard(board.Occupancy(s.store, st.Frame), board.Stable(s.store, st.Frame))
		}
		fyne.Do(func() {
			display.UpdateFrame(img)
			panel.SetReport(rep.Text(), rep.NextType)
			bar.SetState(st)
		})
		if srv != nil {
			srv.Publish(rep)
		}
		return nil
	}

	ticks := playback.NewTicks()
	go playback.Ticker(ctx, tick, ticks)
	go func() {
		if err := controller.Run(ctx, events, ticks, render); err != nil && ctx.Err() == nil {
			slog.Error("viewer: playback stopped", "error", err)
		}
		fyne.Do(myApp.Quit)
	}()

	// 6. Layout and Run
	window.Resize(fyne.NewSize(1280, 960))
	window.ShowAndRun()
}
