// Package report summarises the record state at a frame for display, and
// charts whole-video series for offline review.
package report

import (
	"fmt"
	"strings"

	"github.com/intothevoid/ocrscope/pkg/board"
	"github.com/intothevoid/ocrscope/pkg/results"
	"github.com/intothevoid/ocrscope/pkg/statemachine"
)

// Report is the state summary shown next to a rendered frame.
type Report struct {
	Frame           int                   `json:"frame"`
	Total           int                   `json:"total"`
	State           string                `json:"state"`
	RunLength       int                   `json:"runLength"`
	ActivationCount int                   `json:"activationCount"`
	Events          []results.EventStatus `json:"events"`
	BoardNoise      string                `json:"boardNoise"`
	NextType        string                `json:"nextType"`
	BoardOnlyType   string                `json:"boardOnlyType"`
	Level           string                `json:"level"`
	Packets         []string              `json:"packets"`
	Logs            []string              `json:"logs"`
	Occupied        int                   `json:"occupied"`
	Disagreements   int                   `json:"disagreements"`
}

// Build collects the report for frame. All values come from the same record.
func Build(view *statemachine.View, frame int) Report {
	store := view.Store()
	snap := view.Snapshot(frame)

	return Report{
		Frame:           frame,
		Total:           store.NumFrames(),
		State:           store.AttributeText(frame, results.KeyStateID),
		RunLength:       view.RunLength(frame),
		ActivationCount: view.ActivationCount(frame),
		Events:          snap.Events,
		BoardNoise:      store.BoardNoiseText(frame),
		NextType:        store.NextTypeText(frame),
		BoardOnlyType:   store.BoardOnlyTypeText(frame),
		Level:           store.LevelText(frame),
		Packets:         store.Packets(frame),
		Logs:            store.Logs(frame),
		Occupied:        board.Occupancy(store, frame).Count(),
		Disagreements:   board.Disagreements(store, frame),
	}
}

// Text renders r as the multi-line panel shown beside the video.
func (r Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Frame: %d / %d\n", r.Frame, max(r.Total-1, 0))
	fmt.Fprintf(&b, "State: %s (run %d, activation %d)\n", r.State, r.RunLength, r.ActivationCount)
	fmt.Fprintf(&b, "Level: %s\n", r.Level)
	fmt.Fprintf(&b, "Next: %s\n", r.NextType)
	fmt.Fprintf(&b, "Board piece: %s\n", r.BoardOnlyType)
	fmt.Fprintf(&b, "Board noise: %s\n", r.BoardNoise)
	fmt.Fprintf(&b, "Minos: %d (stable disagrees on %d)\n", r.Occupied, r.Disagreements)

	if len(r.Events) > 0 {
		b.WriteString("Events:\n")
		for _, ev := range r.Events {
			fmt.Fprintf(&b, "  %s pre=%s persist=%s\n", ev.Name, mark(ev.PreconditionMet), mark(ev.PersistenceMet))
		}
	}
	if len(r.Packets) > 0 {
		b.WriteString("Packets:\n")
		for _, p := range r.Packets {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	if len(r.Logs) > 0 {
		b.WriteString("Logs:\n")
		for _, l := range r.Logs {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
