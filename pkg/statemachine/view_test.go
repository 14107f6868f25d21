package statemachine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intothevoid/ocrscope/pkg/results"
)

func ptr[T any](v T) *T { return &v }

func storeOf(ids ...string) *results.Store {
	records := make([]results.FrameRecord, len(ids))
	for i, id := range ids {
		if id != "" {
			records[i].StateID = ptr(id)
		}
	}
	return results.NewStore(records)
}

func counters(v *View) (activations, runs []int) {
	for i := 0; i < v.NumFrames(); i++ {
		activations = append(activations, v.ActivationCount(i))
		runs = append(runs, v.RunLength(i))
	}
	return activations, runs
}

func TestDerivedCountersRoundTrip(t *testing.T) {
	v := NewView(storeOf("B", "B", "A", "C", "C"))

	activations, runs := counters(v)
	assert.Equal(t, []int{1, 1, 2, 3, 3}, activations)
	assert.Equal(t, []int{1, 2, 1, 1, 2}, runs)
}

func TestCountersAcrossSequences(t *testing.T) {
	tests := []struct {
		name            string
		ids             []string
		wantActivations []int
		wantRuns        []int
	}{
		{"empty", nil, nil, nil},
		{"single frame", []string{"A"}, []int{1}, []int{1}},
		{"one long state", []string{"A", "A", "A"}, []int{1, 1, 1}, []int{1, 2, 3}},
		{"return to earlier state", []string{"A", "B", "A"}, []int{1, 2, 3}, []int{1, 1, 1}},
		{"missing state ids form their own run", []string{"", "", "A", ""}, []int{1, 1, 2, 3}, []int{1, 2, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activations, runs := counters(NewView(storeOf(tt.ids...)))
			assert.Equal(t, tt.wantActivations, activations)
			assert.Equal(t, tt.wantRuns, runs)
		})
	}
}

func TestCounterInvariants(t *testing.T) {
	ids := []string{"A", "A", "B", "B", "B", "A", "C", "C", "", "C"}
	v := NewView(storeOf(ids...))

	for i := 1; i < len(ids); i++ {
		changed := ids[i] != ids[i-1]
		if changed {
			assert.Equal(t, 1, v.RunLength(i), "frame %d should reset run length", i)
			assert.Equal(t, v.ActivationCount(i-1)+1, v.ActivationCount(i), "frame %d should add one activation", i)
		} else {
			assert.Equal(t, v.RunLength(i-1)+1, v.RunLength(i), "frame %d should extend run", i)
			assert.Equal(t, v.ActivationCount(i-1), v.ActivationCount(i), "frame %d should keep activation count", i)
		}
	}
}

func TestSnapshotReadsOneFrame(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{StateID: ptr("BEFORE_GAME")},
		{
			StateID: ptr("DURING_GAME"),
			EventStatuses: []results.EventStatus{
				{Name: "Topout", PreconditionMet: true},
				{Name: "LineClear"},
			},
		},
	})
	v := NewView(store)

	snap := v.Snapshot(1)
	assert.Equal(t, 1, snap.Frame)
	assert.Equal(t, "DURING_GAME", snap.StateID.Value)
	assert.Equal(t, results.Field[int]{Kind: results.Present, Value: 1}, snap.RunLength)
	assert.Equal(t, results.Field[int]{Kind: results.Present, Value: 2}, snap.ActivationCount)
	assert.Equal(t, []string{"Topout", "LineClear"}, []string{snap.Events[0].Name, snap.Events[1].Name})

	first := v.Snapshot(0)
	assert.NotNil(t, first.Events)
	assert.Empty(t, first.Events)
}

func TestSnapshotOutOfRange(t *testing.T) {
	v := NewView(storeOf("A", "B"))

	for _, frame := range []int{-1, 2, 100} {
		snap := v.Snapshot(frame)
		assert.Equal(t, results.OutOfRange, snap.StateID.Kind)
		assert.Equal(t, results.OutOfRange, snap.RunLength.Kind)
		assert.Equal(t, results.OutOfRange, snap.ActivationCount.Kind)
		assert.NotNil(t, snap.Events)
		assert.Empty(t, snap.Events)
		assert.Equal(t, -1, v.RunLength(frame))
		assert.Equal(t, -1, v.ActivationCount(frame))
	}
}

func TestTransitions(t *testing.T) {
	v := NewView(storeOf("B", "B", "A", "", "C"))

	want := []Transition{
		{Frame: 0, StateID: "B", Present: true},
		{Frame: 2, StateID: "A", Present: true},
		{Frame: 3, StateID: "", Present: false},
		{Frame: 4, StateID: "C", Present: true},
	}
	if diff := cmp.Diff(want, v.Transitions()); diff != "" {
		t.Errorf("Transitions() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{StateID: ptr("A"), StateCount: ptr(1), StateFrameCount: ptr(1)},
		{StateID: ptr("A"), StateCount: ptr(1), StateFrameCount: ptr(5)},
		{StateID: ptr("B"), StateCount: ptr(1)},
		{StateID: ptr("B")},
	})

	mismatches := NewView(store).Verify()
	require.Len(t, mismatches, 2)
	assert.Equal(t, Mismatch{Frame: 1, Field: results.KeyStateFrameCount, Authored: 5, Derived: 2}, mismatches[0])
	assert.Equal(t, Mismatch{Frame: 2, Field: results.KeyStateCount, Authored: 1, Derived: 2}, mismatches[1])
	assert.Equal(t, "frame 1: stateFrameCount authored 5, derived 2", mismatches[0].String())
}

func TestEventsSummary(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{EventStatuses: []results.EventStatus{{Name: "Start", PreconditionMet: true}}},
		{EventStatuses: []results.EventStatus{
			{Name: "Start", PreconditionMet: true, PersistenceMet: true},
			{Name: "Topout"},
		}},
	})

	want := []EventSummary{
		{Name: "Start", Evaluated: 2, PreconditionMet: 2, PersistenceMet: 1},
		{Name: "Topout", Evaluated: 1},
	}
	assert.Equal(t, want, NewView(store).Events())
}

func TestAttributeDelegates(t *testing.T) {
	store := results.NewStore([]results.FrameRecord{
		{Attributes: map[string]results.Value{"score": results.NumberOf(1200)}},
	})
	v := NewView(store)

	assert.Equal(t, results.NumberOf(1200), v.Attribute(0, "score").Value)
	assert.Equal(t, results.OutOfRange, v.Attribute(1, "score").Kind)
}
