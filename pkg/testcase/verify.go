package testcase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/intothevoid/ocrscope/pkg/results"
)

// Outcome is the result of one ground truth check.
type Outcome string

const (
	Pass      Outcome = "pass"
	Fail      Outcome = "fail"
	Unchecked Outcome = "unchecked"
)

// Check compares one ground truth value with what the records show.
type Check struct {
	Name     string  `json:"name"`
	Expected string  `json:"expected"`
	Actual   string  `json:"actual"`
	Frame    int     `json:"frame"`
	Outcome  Outcome `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
}

func (c Check) String() string {
	s := fmt.Sprintf("%-20s %-9s expected=%s actual=%s", c.Name, c.Outcome, c.Expected, c.Actual)
	if c.Frame >= 0 {
		s += fmt.Sprintf(" frame=%d", c.Frame)
	}
	if c.Reason != "" {
		s += " (" + c.Reason + ")"
	}
	return s
}

// Verify checks the records against the ground truth in cfg. Start values are
// compared with the first frame where the value was determined, end values
// with the last. Lines and score are not carried by frame records and are
// always reported as unchecked.
func Verify(store *results.Store, cfg *Config) []Check {
	var out []Check
	start, end := cfg.Verification.Start, cfg.Verification.End

	if start.Level != nil {
		frame, level := firstLevel(store, true)
		out = append(out, compare("start.level", strconv.Itoa(*start.Level), frame, level))
	}
	if start.CurrentPiece != "" {
		frame, piece := firstPiece(store, store.BoardOnlyType)
		out = append(out, comparePiece("start.currentPiece", start.CurrentPiece, frame, piece))
	}
	if start.NextPiece != "" {
		frame, piece := firstPiece(store, store.NextType)
		out = append(out, comparePiece("start.nextPiece", start.NextPiece, frame, piece))
	}
	if end.Level != nil {
		frame, level := firstLevel(store, false)
		out = append(out, compare("end.level", strconv.Itoa(*end.Level), frame, level))
	}
	if end.Lines != nil {
		out = append(out, unchecked("end.lines", strconv.Itoa(*end.Lines)))
	}
	if end.Score != nil {
		out = append(out, unchecked("end.score", strconv.Itoa(*end.Score)))
	}
	return out
}

// Failed reports whether any check failed.
func Failed(checks []Check) bool {
	for _, c := range checks {
		if c.Outcome == Fail {
			return true
		}
	}
	return false
}

// firstLevel scans forward (or backward) for a determined level.
func firstLevel(store *results.Store, forward bool) (int, string) {
	n := store.NumFrames()
	for k := 0; k < n; k++ {
		i := k
		if !forward {
			i = n - 1 - k
		}
		if l := store.LevelValue(i); l != results.UndeterminedLevel {
			return i, strconv.Itoa(l)
		}
	}
	return -1, ""
}

func firstPiece(store *results.Store, get func(int) results.Field[string]) (int, string) {
	for i := 0; i < store.NumFrames(); i++ {
		if p := get(i); p.Ok() && p.Value != results.UndeterminedPiece && p.Value != "" {
			return i, p.Value
		}
	}
	return -1, ""
}

func compare(name, expected string, frame int, actual string) Check {
	c := Check{Name: name, Expected: expected, Actual: actual, Frame: frame}
	switch {
	case frame < 0:
		c.Outcome = Fail
		c.Reason = "never determined"
	case actual == expected:
		c.Outcome = Pass
	default:
		c.Outcome = Fail
	}
	return c
}

func comparePiece(name, expected string, frame int, actual string) Check {
	c := compare(name, strings.ToUpper(expected), frame, strings.ToUpper(actual))
	c.Expected, c.Actual = expected, actual
	return c
}

func unchecked(name, expected string) Check {
	return Check{Name: name, Expected: expected, Frame: -1, Outcome: Unchecked, Reason: "not recorded per frame"}
}
