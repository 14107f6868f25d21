package playback

import (
	"context"
	"time"
)

// DefaultTickInterval matches a ~30 FPS redraw.
const DefaultTickInterval = 30 * time.Millisecond

// RenderFunc draws one state. It must finish before the next event is taken.
type RenderFunc func(State) error

// NewTicks returns the channel Ticker feeds and Run drains. It holds one tick,
// so ticks never pile up behind a slow render.
func NewTicks() chan struct{} {
	return make(chan struct{}, 1)
}

// Run renders the initial state, then applies operator input and ticks one at
// a time, rendering after each. Pending input always goes before a pending
// tick. Ticks that change nothing are not rendered. A render error pauses
// playback and is passed to OnError; the loop keeps serving input so the
// operator can step elsewhere. Run returns nil on Quit or when input is
// closed, and ctx.Err() on cancellation. A nil ticks channel never ticks.
func (c *Controller) Run(ctx context.Context, input <-chan Event, ticks <-chan struct{}, render RenderFunc) error {
	c.render(c.Snapshot(), render)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-input:
			if c.step(ev, ok, render) {
				return nil
			}
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-input:
			if c.step(ev, ok, render) {
				return nil
			}
		case <-ticks:
			c.step(Event{Kind: Tick}, true, render)
		}
	}
}

// step applies one event and renders the result. It reports whether the loop
// is finished.
func (c *Controller) step(ev Event, ok bool, render RenderFunc) bool {
	if !ok {
		return true
	}
	before := c.Snapshot()
	st := c.Apply(ev)
	if st.Done {
		return true
	}
	if ev.Kind == Tick && st == before {
		return false
	}
	c.render(st, render)
	return false
}

func (c *Controller) render(st State, render RenderFunc) {
	if err := render(st); err != nil {
		c.pause()
		st.Playing = false
		if c.OnError != nil {
			c.OnError(st, err)
		}
	}
}

func (c *Controller) pause() {
	c.mu.Lock()
	c.state.Playing = false
	c.mu.Unlock()
}

// Ticker signals ticks every interval until ctx is cancelled. A tick is
// dropped while the previous one is still waiting in ticks.
func Ticker(ctx context.Context, interval time.Duration, ticks chan<- struct{}) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
	}
}
