// Package statemachine interprets the per-frame state IDs of a results store as
// the OCR state machine saw them: which state is active, how long it has run and
// how many activations have happened so far.
package statemachine

import (
	"fmt"

	"github.com/intothevoid/ocrscope/pkg/results"
)

// Snapshot is the state machine as of one frame. Every field comes from the
// same record index.
type Snapshot struct {
	Frame           int
	StateID         results.Field[string]
	RunLength       results.Field[int]
	ActivationCount results.Field[int]
	Events          []results.EventStatus
}

// View is a read-only interpretation of a store. The run length and activation
// counters are derived from the StateID sequence once, at construction.
type View struct {
	store       *results.Store
	activations []int
	runs        []int
}

// NewView derives the state counters for every frame in store.
//
// Frame 0 is activation 1 with run length 1. A frame whose state differs from
// the previous frame's (a missing state counts as its own state) starts a new
// activation; any other frame extends the current run.
func NewView(store *results.Store) *View {
	n := store.NumFrames()
	v := &View{
		store:       store,
		activations: make([]int, n),
		runs:        make([]int, n),
	}

	var prev results.Field[string]
	for i := 0; i < n; i++ {
		cur := store.StateID(i)
		if i == 0 || cur != prev {
			if i == 0 {
				v.activations[i] = 1
			} else {
				v.activations[i] = v.activations[i-1] + 1
			}
			v.runs[i] = 1
		} else {
			v.activations[i] = v.activations[i-1]
			v.runs[i] = v.runs[i-1] + 1
		}
		prev = cur
	}
	return v
}

// Store returns the underlying record store.
func (v *View) Store() *results.Store {
	return v.store
}

// NumFrames returns the number of frames in the underlying store.
func (v *View) NumFrames() int {
	return v.store.NumFrames()
}

// Snapshot returns the state machine as of frame. Out-of-range frames get
// OutOfRange fields and no events.
func (v *View) Snapshot(frame int) Snapshot {
	snap := Snapshot{
		Frame:   frame,
		StateID: v.store.StateID(frame),
		Events:  v.store.EventStatuses(frame),
	}
	if frame < 0 || frame >= len(v.runs) {
		snap.RunLength = results.Field[int]{Kind: results.OutOfRange}
		snap.ActivationCount = results.Field[int]{Kind: results.OutOfRange}
		return snap
	}
	snap.RunLength = results.Field[int]{Kind: results.Present, Value: v.runs[frame]}
	snap.ActivationCount = results.Field[int]{Kind: results.Present, Value: v.activations[frame]}
	return snap
}

// Attribute returns any named attribute of the record at frame.
func (v *View) Attribute(frame int, name string) results.Field[results.Value] {
	return v.store.Attribute(frame, name)
}

// RunLength returns the derived run length at frame, or -1 when out of range.
func (v *View) RunLength(frame int) int {
	if frame < 0 || frame >= len(v.runs) {
		return -1
	}
	return v.runs[frame]
}

// ActivationCount returns the derived activation count at frame, or -1 when out of range.
func (v *View) ActivationCount(frame int) int {
	if frame < 0 || frame >= len(v.activations) {
		return -1
	}
	return v.activations[frame]
}

// Transition marks the first frame of a state activation.
type Transition struct {
	Frame   int    `json:"frame"`
	StateID string `json:"stateID"`
	// Present is false when the new "state" is a run of records without a state ID.
	Present bool `json:"present"`
}

// Transitions lists every frame that starts a new activation, in order.
func (v *View) Transitions() []Transition {
	var out []Transition
	for i, run := range v.runs {
		if run != 1 {
			continue
		}
		id := v.store.StateID(i)
		out = append(out, Transition{Frame: i, StateID: id.Value, Present: id.Ok()})
	}
	return out
}

// Mismatch is a frame where counters authored by the pipeline disagree with the
// derived ones.
type Mismatch struct {
	Frame    int
	Field    string
	Authored int
	Derived  int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("frame %d: %s authored %d, derived %d", m.Frame, m.Field, m.Authored, m.Derived)
}

// Verify compares authored stateCount / stateFrameCount against the derived
// counters. Both are 1-based: the first record is activation 1, and every run
// starts at 1. Frames that omit the authored fields are not checked.
func (v *View) Verify() []Mismatch {
	var out []Mismatch
	for i := range v.runs {
		if c := v.store.StateCount(i); c.Ok() && c.Value != v.activations[i] {
			out = append(out, Mismatch{Frame: i, Field: results.KeyStateCount, Authored: c.Value, Derived: v.activations[i]})
		}
		if r := v.store.StateFrameCount(i); r.Ok() && r.Value != v.runs[i] {
			out = append(out, Mismatch{Frame: i, Field: results.KeyStateFrameCount, Authored: r.Value, Derived: v.runs[i]})
		}
	}
	return out
}

// EventSummary counts, over the whole sequence, how often one event was evaluated
// and how often its precondition and persistence conditions held.
type EventSummary struct {
	Name            string `json:"name"`
	Evaluated       int    `json:"evaluated"`
	PreconditionMet int    `json:"preconditionMet"`
	PersistenceMet  int    `json:"persistenceMet"`
}

// Events summarises every event name in first-seen order.
func (v *View) Events() []EventSummary {
	index := map[string]int{}
	var out []EventSummary
	for i := range v.runs {
		for _, ev := range v.store.EventStatuses(i) {
			j, ok := index[ev.Name]
			if !ok {
				j = len(out)
				index[ev.Name] = j
				out = append(out, EventSummary{Name: ev.Name})
			}
			out[j].Evaluated++
			if ev.PreconditionMet {
				out[j].PreconditionMet++
			}
			if ev.PersistenceMet {
				out[j].PersistenceMet++
			}
		}
	}
	return out
}
