package ui

import (
	"bytes"
	"strings"
	"testing"

	"installer/internal/plan"
	"installer/pkg/manifest"

	"github.com/fatih/color"
)

func TestPrintPlan(t *testing.T) {
	color.NoColor = true

	m := &manifest.Manifest{
		PackageManagers: []manifest.PackageManager{
			{Kind: "pacman", Sudo: true, Packages: []manifest.Package{{Flags: []string{"-S", "--noconfirm"}, App: "git"}}},
			{Kind: "yay", Packages: []manifest.Package{{Flags: []string{"-S"}, App: "spotify"}}},
		},
		Custom: []manifest.CustomStep{
			manifest.NewWeb(manifest.WebStep{URL: "https://example.com/yay.sh", Name: "yay.sh", Prioritize: true}),
		},
	}

	var buf bytes.Buffer
	PrintPlan(&buf, plan.Build(m, plan.Options{}), map[string]bool{"yay": true})
	out := buf.String()

	for _, want := range []string{
		"SOURCE",
		"[web]",
		"yay.sh (priority)",
		"./yay.sh",
		"sudo pacman -S --noconfirm git",
		"spotify (not installed: yay)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "yay.sh") {
		t.Errorf("prioritized step should be listed first, got %q", lines[1])
	}
}

func TestPrintPlanEmpty(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintPlan(&buf, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("empty plan should not print a table, got %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	UseColors = false
	defer func() { UseColors = true }()

	for _, ok := range []bool{true, false} {
		out := RenderSummary("Done installing packages..", []string{"3 of 3 steps succeeded"}, ok)
		if !strings.Contains(out, "Done installing packages..") || !strings.Contains(out, "3 of 3 steps succeeded") {
			t.Errorf("RenderSummary(ok=%v) = %q", ok, out)
		}
	}
}
