// Package playback holds the frame cursor shared by the viewer's render step
// and its input sources.
package playback

import (
	"fmt"
	"sync"
)

// TickPolicy decides what a tick does at the last frame.
type TickPolicy int

const (
	// ClampAndStop stays on the last frame and pauses.
	ClampAndStop TickPolicy = iota
	// WrapToStart jumps back to frame 0 and keeps playing.
	WrapToStart
)

func (p TickPolicy) String() string {
	switch p {
	case ClampAndStop:
		return "clampAndStop"
	case WrapToStart:
		return "wrapToStart"
	default:
		return fmt.Sprintf("TickPolicy(%d)", int(p))
	}
}

// Viewing modes.
const (
	ModeOutput = "output"
	ModeBounds = "bounds"
	ModeVideo  = "video"
)

// Config fixes the frame count and end-of-video behaviour for a session.
type Config struct {
	Frames int
	Tick   TickPolicy
	// RestartOnReplay makes TogglePlay at the last frame start over from 0.
	RestartOnReplay bool
}

// ConfigForMode returns the policy a viewing mode plays with. Modes driven by
// the record store stop at the end and restart on replay; raw video loops.
func ConfigForMode(mode string, frames int) (Config, error) {
	switch mode {
	case ModeOutput, ModeBounds:
		return Config{Frames: frames, Tick: ClampAndStop, RestartOnReplay: true}, nil
	case ModeVideo:
		return Config{Frames: frames, Tick: WrapToStart}, nil
	default:
		return Config{}, fmt.Errorf("unknown mode %q, want output, bounds or video", mode)
	}
}

// EventKind enumerates playback inputs.
type EventKind int

const (
	Advance EventKind = iota
	Retreat
	TogglePlay
	SeekTo
	Tick
	Quit
)

var eventNames = [...]string{"advance", "retreat", "togglePlay", "seekTo", "tick", "quit"}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one playback input. Index is only read for SeekTo.
type Event struct {
	Kind  EventKind
	Index int
}

// Seek returns a SeekTo event for index.
func Seek(index int) Event {
	return Event{Kind: SeekTo, Index: index}
}

// State is the value a render observes.
type State struct {
	Frame   int
	Playing bool
	// Done is set once Quit has been applied.
	Done bool
}

// Controller owns the frame cursor. All transitions happen under one lock, so
// Snapshot never sees a frame from one transition paired with the playing
// flag of another.
type Controller struct {
	// OnError receives render failures from Run. Playback is already paused
	// when it is called.
	OnError func(State, error)

	mu    sync.Mutex
	cfg   Config
	state State
}

// NewController starts paused at frame 0.
func NewController(cfg Config) *Controller {
	if cfg.Frames < 0 {
		cfg.Frames = 0
	}
	return &Controller{cfg: cfg}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apply performs one transition and returns the resulting state. Events after
// Quit are ignored.
func (c *Controller) Apply(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Done {
		return c.state
	}
	last := c.cfg.Frames - 1

	switch ev.Kind {
	case Advance:
		c.state.Frame = c.clamp(c.state.Frame + 1)
		c.state.Playing = false
	case Retreat:
		c.state.Frame = c.clamp(c.state.Frame - 1)
		c.state.Playing = false
	case SeekTo:
		c.state.Frame = c.clamp(ev.Index)
	case TogglePlay:
		c.state.Playing = !c.state.Playing
		if c.state.Playing && c.cfg.RestartOnReplay && c.state.Frame >= last {
			c.state.Frame = 0
		}
	case Tick:
		if !c.state.Playing {
			break
		}
		switch {
		case c.state.Frame < last:
			c.state.Frame++
		case c.cfg.Tick == WrapToStart && c.cfg.Frames > 0:
			c.state.Frame = 0
		default:
			c.state.Frame = c.clamp(c.state.Frame)
			c.state.Playing = false
		}
	case Quit:
		c.state.Playing = false
		c.state.Done = true
	}
	return c.state
}

func (c *Controller) clamp(frame int) int {
	if frame >= c.cfg.Frames {
		frame = c.cfg.Frames - 1
	}
	if frame < 0 {
		frame = 0
	}
	return frame
}
