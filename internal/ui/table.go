package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"installer/internal/plan"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := &Table{
		writer:  tw,
		headers: header,
	}

	// Print headers first in bold
	if len(header) > 0 {
		headerRow := make([]string, len(header))
		for i, h := range header {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(tw, strings.Join(headerRow, "\t"))
	}

	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render outputs the table.
func (t *Table) Render() {
	t.writer.Flush()
}

// PrintPlan prints the steps that are about to run, in order. Package
// managers listed in missing are flagged as not installed.
func PrintPlan(w io.Writer, steps []plan.Step, missing map[string]bool) {
	if len(steps) == 0 {
		MutedMsg("Nothing to install")
		return
	}

	HeaderMsg("Installing following packages:")

	t := NewTableWriter(w, []string{"#", "source", "name", "command"})
	for i, s := range steps {
		source := StepSource.Sprint("[" + s.Source() + "]")
		name := StepName.Sprint(s.Name())
		if s.Kind == plan.StepPackage && missing[s.Manager] {
			name += " " + Missing.Sprint("(not installed: "+s.Manager+")")
		}
		if s.Kind == plan.StepCustom && s.Custom.Prioritized() {
			name += " " + Muted.Sprint("(priority)")
		}
		t.AddRow(fmt.Sprint(i+1), source, name, StepCommand.Sprint(s.Command()))
	}
	t.Render()
}

// PrintHostInfo prints the detected host the plan will run on.
func PrintHostInfo(prettyName, arch string, available []string) {
	HeaderMsg("Host")

	printField("Operating System", prettyName)
	printField("Architecture", arch)

	if len(available) > 0 {
		printField("Package Managers", strings.Join(available, ", "))
	}
}

// printField prints a single field with formatting.
func printField(label, value string) {
	fmt.Printf("  %s: %s\n", Cyan(label), value)
}
