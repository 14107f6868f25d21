package video

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrFrameUnavailable means an in-range frame could not be decoded.
	ErrFrameUnavailable = errors.New("frame unavailable")
	// ErrOutOfRange means the frame index is outside [0, NumFrames).
	ErrOutOfRange = errors.New("frame index out of range")
)

// Source is a random-access video. Frame returns a new Mat the caller must
// Close.
type Source interface {
	Frame(index int) (gocv.Mat, error)
	NumFrames() int
	Size() image.Point
	Close() error
}

// FileSource decodes frames from a video file, seeking on every request.
type FileSource struct {
	path string

	// mu serialises seek+read pairs on the capture
	mu      sync.Mutex
	capture *gocv.VideoCapture
	frame   gocv.Mat // reusable read buffer
	frames  int
	size    image.Point
}

// Open opens a video file for random access.
func Open(path string) (*FileSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}

	return &FileSource{
		path:    path,
		capture: capture,
		frame:   gocv.NewMat(),
		frames:  int(capture.Get(gocv.VideoCaptureFrameCount)),
		size: image.Pt(
			int(capture.Get(gocv.VideoCaptureFrameWidth)),
			int(capture.Get(gocv.VideoCaptureFrameHeight)),
		),
	}, nil
}

// NumFrames returns the frame count reported by the container.
func (s *FileSource) NumFrames() int {
	return s.frames
}

// Size returns the frame width and height.
func (s *FileSource) Size() image.Point {
	return s.size
}

// Frame seeks to index and returns a copy of the decoded frame. The seek is
// synchronous: the frame is fully decoded when Frame returns.
func (s *FileSource) Frame(index int) (gocv.Mat, error) {
	if index < 0 || index >= s.frames {
		return gocv.NewMat(), fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, s.frames)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.capture.Set(gocv.VideoCapturePosFrames, float64(index))
	if !s.capture.Read(&s.frame) || s.frame.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: frame %d of %s", ErrFrameUnavailable, index, s.path)
	}
	return s.frame.Clone(), nil
}

// Close releases the capture.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.frame.Close(); err != nil {
		return err
	}
	return s.capture.Close()
}

// MemorySource holds every frame of a video in memory.
type MemorySource struct {
	frames []gocv.Mat
	size   image.Point
}

// Preload reads the whole of src sequentially. src is left open.
func Preload(src *FileSource) (*MemorySource, error) {
	src.mu.Lock()
	defer src.mu.Unlock()

	src.capture.Set(gocv.VideoCapturePosFrames, 0)
	m := &MemorySource{size: src.size}
	for {
		if !src.capture.Read(&src.frame) || src.frame.Empty() {
			break
		}
		m.frames = append(m.frames, src.frame.Clone())
	}
	if len(m.frames) == 0 {
		return nil, fmt.Errorf("%w: no frames decoded from %s", ErrFrameUnavailable, src.path)
	}
	return m, nil
}

// NumFrames returns the number of decoded frames.
func (m *MemorySource) NumFrames() int {
	return len(m.frames)
}

// Size returns the frame width and height.
func (m *MemorySource) Size() image.Point {
	return m.size
}

// Frame returns a copy of frame index.
func (m *MemorySource) Frame(index int) (gocv.Mat, error) {
	if index < 0 || index >= len(m.frames) {
		return gocv.NewMat(), fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(m.frames))
	}
	return m.frames[index].Clone(), nil
}

// Close frees all frames.
func (m *MemorySource) Close() error {
	var errs []error
	for i := range m.frames {
		errs = append(errs, m.frames[i].Close())
	}
	m.frames = nil
	return errors.Join(errs...)
}
