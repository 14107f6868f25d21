// Command report checks a test case's frame records offline: ground truth,
// state counters and event statistics, plus a noise plot and state timeline.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/intothevoid/ocrscope/pkg/board"
	"github.com/intothevoid/ocrscope/pkg/config"
	"github.com/intothevoid/ocrscope/pkg/report"
	"github.com/intothevoid/ocrscope/pkg/results"
	"github.com/intothevoid/ocrscope/pkg/statemachine"
	"github.com/intothevoid/ocrscope/pkg/testcase"
)

type summary struct {
	TestCase    string                      `json:"testcase"`
	Frames      int                         `json:"frames"`
	Checks      []testcase.Check            `json:"checks"`
	Mismatches  []string                    `json:"mismatches"`
	Transitions []statemachine.Transition   `json:"transitions"`
	Events      []statemachine.EventSummary `json:"events"`
}

func main() {
	config.LoadEnv()

	testCase := flag.String("case", config.String(config.EnvCase, ""), "Test case name (required)")
	root := flag.String("root", config.String(config.EnvRoot, ".."), "Directory holding test-cases/ and test-output/")
	resultsPath := flag.String("results", "", "Frame record file (default test-output/<case>/test-results.yaml)")
	outDir := flag.String("out", "", "Directory for noise.png and timeline.html (default test-output/<case>)")
	frame := flag.Int("frame", -1, "Also print the report and board for this frame")
	asJSON := flag.Bool("json", false, "Print the summary as JSON")
	strict := flag.Bool("strict", false, "Also fail when authored state counters disagree with derived ones")
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

	layout := testcase.Layout{Root: *root, Name: *testCase}
	if *resultsPath == "" {
		*resultsPath = layout.ResultsPath()
	}
	if *outDir == "" {
		*outDir = layout.OutputDir()
	}

	failed, err := run(layout, *resultsPath, *outDir, *frame, *asJSON, *strict, os.Stdout)
	if err != nil {
		slog.Error("report: failed", "case", *testCase, "error", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

// run reports on one test case. It fails on ground truth mismatches; counter
// mismatches are only warnings unless strict is set.
func run(layout testcase.Layout, resultsPath, outDir string, frame int, asJSON, strict bool, w io.Writer) (bool, error) {
	store, err := results.Load(resultsPath)
	if err != nil {
		return false, err
	}
	view := statemachine.NewView(store)

	s := summary{
		TestCase:    layout.Name,
		Frames:      store.NumFrames(),
		Transitions: view.Transitions(),
		Events:      view.Events(),
	}
	for _, m := range view.Verify() {
		s.Mismatches = append(s.Mismatches, m.String())
	}
	if len(s.Mismatches) > 0 {
		slog.Warn("report: authored state counters disagree with derived ones", "frames", len(s.Mismatches), "strict", strict)
	}

	cfg, err := testcase.LoadConfig(layout.ConfigPath())
	switch {
	case err == nil:
		s.Checks = testcase.Verify(store, cfg)
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("report: no test case config, skipping ground truth", "path", layout.ConfigPath())
	default:
		return false, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := report.NoisePlot(store, layout.Name, filepath.Join(outDir, "noise.png")); err != nil {
		slog.Warn("report: skipping noise plot", "error", err)
	}
	if err := writeTimeline(view, layout.Name, filepath.Join(outDir, "timeline.html")); err != nil {
		return false, err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return false, err
		}
	} else {
		printSummary(w, s)
	}

	if frame >= 0 {
		fmt.Fprintf(w, "\n%s\n%s", report.Build(view, frame).Text(), board.Format(board.Occupancy(store, frame)))
	}
	return testcase.Failed(s.Checks) || (strict && len(s.Mismatches) > 0), nil
}

func writeTimeline(view *statemachine.View, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create timeline: %w", err)
	}
	if err := report.StateTimeline(view, title, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, s summary) {
	fmt.Fprintf(w, "Test case: %s (%d frames)\n", s.TestCase, s.Frames)

	fmt.Fprintln(w, "\nGround truth:")
	if len(s.Checks) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range s.Checks {
		fmt.Fprintf(w, "  %s\n", c)
	}

	fmt.Fprintf(w, "\nState counter mismatches: %d\n", len(s.Mismatches))
	for _, m := range s.Mismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}

	fmt.Fprintf(w, "\nTransitions: %d\n", len(s.Transitions))
	for _, t := range s.Transitions {
		id := t.StateID
		if !t.Present {
			id = results.NotFetched
		}
		fmt.Fprintf(w, "  frame %6d  %s\n", t.Frame, id)
	}

	fmt.Fprintln(w, "\nEvents:")
	for _, e := range s.Events {
		fmt.Fprintf(w, "  %-24s evaluated=%d precondition=%d persistence=%d\n",
			e.Name, e.Evaluated, e.PreconditionMet, e.PersistenceMet)
	}
}
