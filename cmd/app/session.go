package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/intothevoid/ocrscope/pkg/calibration"
	"github.com/intothevoid/ocrscope/pkg/overlay"
	"github.com/intothevoid/ocrscope/pkg/playback"
	"github.com/intothevoid/ocrscope/pkg/report"
	"github.com/intothevoid/ocrscope/pkg/results"
	"github.com/intothevoid/ocrscope/pkg/statemachine"
	"github.com/intothevoid/ocrscope/pkg/testcase"
	"github.com/intothevoid/ocrscope/pkg/video"
)

// options are the parsed command-line flags.
type options struct {
	testCase    string
	mode        string
	root        string
	resultsPath string
	strict      bool
	preload     bool
}

// session is everything loaded before playback starts. Nothing in it changes
// afterwards.
type session struct {
	layout   testcase.Layout
	mode     string
	source   video.Source
	store    *results.Store
	view     *statemachine.View
	renderer *overlay.Renderer
	playback playback.Config
}

// load reads video, calibration and records for opts.mode. All structural
// problems are returned here, before any frame is shown.
func load(opts options) (*session, error) {
	s := &session{
		layout: testcase.Layout{Root: opts.root, Name: opts.testCase},
		mode:   opts.mode,
	}

	videoPath, err := s.layout.VideoPath()
	if err != nil {
		return nil, err
	}
	src, err := video.Open(videoPath)
	if err != nil {
		return nil, err
	}
	s.source = src
	if opts.preload {
		slog.Info("viewer: preloading video", "path", videoPath, "frames", src.NumFrames())
		mem, err := video.Preload(src)
		src.Close()
		if err != nil {
			return nil, err
		}
		s.source = mem
	}

	frames := s.source.NumFrames()
	if opts.mode == playback.ModeVideo {
		s.store = results.NewStore(nil)
		s.view = statemachine.NewView(s.store)
		return s.finish(frames)
	}

	if err := s.loadResults(opts); err != nil {
		s.source.Close()
		return nil, err
	}
	if s.store.NumFrames() > 0 {
		if s.store.NumFrames() != frames {
			slog.Warn("viewer: record count differs from video frame count",
				"records", s.store.NumFrames(), "videoFrames", frames)
		}
		frames = s.store.NumFrames()
	}

	cal, err := calibration.Load(s.layout.RegionsPath(), s.layout.PointsPath())
	if err != nil {
		s.source.Close()
		return nil, err
	}
	if opts.mode == playback.ModeOutput {
		s.renderer = overlay.NewRenderer(cal, overlay.DefaultLayers(s.store)...)
	} else {
		s.renderer = overlay.NewRenderer(cal)
	}

	if err := cal.CheckCardinality(s.renderer.ExpectedCardinality()); err != nil {
		if opts.strict {
			s.source.Close()
			return nil, fmt.Errorf("calibration does not match grid size: %w", err)
		}
		slog.Warn("viewer: calibration does not match grid size, unmatched cells are not drawn", "error", err)
	}

	for _, m := range s.view.Verify() {
		slog.Warn("viewer: authored state counter disagrees", "mismatch", m.String())
	}
	return s.finish(frames)
}

func (s *session) loadResults(opts options) error {
	path := opts.resultsPath
	if path == "" {
		path = s.layout.ResultsPath()
	}

	store, err := results.Load(path)
	switch {
	case err == nil:
	case opts.mode == playback.ModeBounds && errors.Is(err, os.ErrNotExist):
		slog.Warn("viewer: no test results, showing calibration only", "path", path)
		store = results.NewStore(nil)
	default:
		return err
	}

	s.store = store
	s.view = statemachine.NewView(store)
	slog.Info("viewer: loaded test results", "path", path, "frames", store.NumFrames())
	return nil
}

func (s *session) finish(frames int) (*session, error) {
	cfg, err := playback.ConfigForMode(s.mode, frames)
	if err != nil {
		s.source.Close()
		return nil, err
	}
	s.playback = cfg
	return s, nil
}

// report summarises frame n.
func (s *session) report(n int) report.Report {
	return report.Build(s.view, n)
}

// png renders frame n and encodes it for the frame server.
func (s *session) png(n int) ([]byte, error) {
	mat, err := video.Annotate(s.source, s.renderer, n)
	defer mat.Close()
	if err != nil {
		return nil, err
	}
	return video.EncodePNG(mat)
}
