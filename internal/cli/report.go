package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"installer/internal/installer"
	"installer/internal/ui"
)

// report prints one line per step and the final summary. It returns an
// ExitError with ExitStepsFailed when any step did not succeed.
func report(results []installer.StepResult, dryRun bool) error {
	printResults(os.Stdout, results)

	s := installer.Summarize(results)
	switch {
	case dryRun:
		ui.PrintSummary("Dry run complete, nothing was executed", summaryLines(s), true)
	case s.OK():
		ui.PrintSummary("Done installing packages..", summaryLines(s), true)
	default:
		ui.PrintSummary(fmt.Sprintf("%d of %d steps did not succeed", s.Total-s.Succeeded, s.Total), summaryLines(s), false)
		return &ExitError{Code: ExitStepsFailed}
	}

	return nil
}

func printResults(w io.Writer, results []installer.StepResult) {
	if len(results) == 0 {
		return
	}

	ui.HeaderMsg("Results")

	t := ui.NewTableWriter(w, []string{"#", "step", "result", "time"})
	for i, r := range results {
		t.AddRow(fmt.Sprint(i+1), r.Step.String(), colorStatus(r), formatDuration(r))
	}
	t.Render()
}

func colorStatus(r installer.StepResult) string {
	switch r.Status {
	case installer.StatusSucceeded:
		return ui.Green(r.String())
	case installer.StatusTimedOut:
		return ui.Yellow(r.String())
	default:
		return ui.Red(r.String())
	}
}

func formatDuration(r installer.StepResult) string {
	if r.DryRun || r.Duration == 0 {
		return "-"
	}
	return r.Duration.Round(time.Millisecond).String()
}

func summaryLines(s installer.Summary) []string {
	lines := []string{fmt.Sprintf("%d of %d steps succeeded", s.Succeeded, s.Total)}
	if s.Failed > 0 {
		lines = append(lines, fmt.Sprintf("failed: %d", s.Failed))
	}
	if s.TimedOut > 0 {
		lines = append(lines, fmt.Sprintf("timed out: %d", s.TimedOut))
	}
	if s.Setup > 0 {
		lines = append(lines, fmt.Sprintf("setup errors: %d", s.Setup))
	}
	return lines
}
