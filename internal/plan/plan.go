// Package plan turns a manifest into the ordered list of steps to run.
package plan

import (
	"strings"

	"installer/pkg/manifest"
)

// Group keys accepted in an order list.
const (
	GroupPackageManager = "package_manager"
	GroupCustom         = "custom"
)

// StepKind separates package-manager invocations from custom scripts.
type StepKind string

const (
	StepPackage StepKind = "package"
	StepCustom  StepKind = "custom"
)

// Step is one resolved unit of work.
type Step struct {
	Kind StepKind

	// Package steps.
	Manager string
	Sudo    bool
	Package string
	// Argv is the full command line, including a leading "sudo" when requested.
	Argv []string

	// Custom steps.
	Custom manifest.CustomStep
}

// Command renders a package step as "[sudo] <kind> <flags...> <app>".
// Custom steps render as "./<name>".
func (s Step) Command() string {
	if s.Kind == StepCustom {
		return "./" + s.Custom.Name()
	}
	return strings.Join(s.Argv, " ")
}

// Name is the package or script name shown to the user.
func (s Step) Name() string {
	if s.Kind == StepCustom {
		return s.Custom.Name()
	}
	return s.Package
}

// Source describes where the step comes from: the manager kind or the
// custom step variant.
func (s Step) Source() string {
	if s.Kind == StepCustom {
		return string(s.Custom.Kind())
	}
	return s.Manager
}

// String returns the display form of the step.
func (s Step) String() string {
	if s.Kind == StepCustom {
		return "[" + s.Source() + "] " + s.Name()
	}
	return "[" + s.Manager + "] " + s.Command()
}

// Options is the part of the run configuration the planner reads.
type Options struct {
	// Targets keeps only the package managers whose kind is listed. Empty keeps all.
	Targets []string
	// Order lists group keys and custom step names in the desired order.
	Order []string
}

// Build resolves the manifest into an ordered plan:
// prioritized custom steps, then package steps and the remaining custom
// steps in group order (package managers first unless Order says otherwise).
// The manifest is not modified and the result depends only on the inputs.
func Build(m *manifest.Manifest, opts Options) []Step {
	if m == nil {
		return nil
	}

	var prioritized, normal []manifest.CustomStep
	for _, c := range m.Custom {
		if c.Prioritized() {
			prioritized = append(prioritized, c)
		} else {
			normal = append(normal, c)
		}
	}

	if len(opts.Order) > 0 {
		prioritized = orderCustom(prioritized, opts.Order)
		normal = orderCustom(normal, opts.Order)
	}

	managers := filterManagers(m.PackageManagers, opts.Targets)

	var steps []Step
	steps = append(steps, customSteps(prioritized)...)

	pkgSteps := packageSteps(managers)
	customTail := customSteps(normal)
	if customFirst(opts.Order) {
		steps = append(steps, customTail...)
		steps = append(steps, pkgSteps...)
	} else {
		steps = append(steps, pkgSteps...)
		steps = append(steps, customTail...)
	}

	return steps
}

// customFirst reports whether the order list names the custom group before
// the package-manager group.
func customFirst(order []string) bool {
	pm, custom := -1, -1
	for i, key := range order {
		switch key {
		case GroupPackageManager:
			if pm < 0 {
				pm = i
			}
		case GroupCustom:
			if custom < 0 {
				custom = i
			}
		}
	}
	if custom < 0 {
		return false
	}
	return pm < 0 || custom < pm
}

// orderCustom moves steps named in order to the front, in order-list order.
// Steps that are not named keep their relative order after them.
func orderCustom(steps []manifest.CustomStep, order []string) []manifest.CustomStep {
	if len(steps) == 0 {
		return steps
	}

	used := make([]bool, len(steps))
	result := make([]manifest.CustomStep, 0, len(steps))

	for _, key := range order {
		for i, s := range steps {
			if !used[i] && s.Name() == key {
				used[i] = true
				result = append(result, s)
			}
		}
	}

	for i, s := range steps {
		if !used[i] {
			result = append(result, s)
		}
	}

	return result
}

func filterManagers(managers []manifest.PackageManager, targets []string) []manifest.PackageManager {
	if len(targets) == 0 {
		return managers
	}

	keep := make(map[string]bool, len(targets))
	for _, t := range targets {
		keep[t] = true
	}

	var result []manifest.PackageManager
	for _, pm := range managers {
		if keep[pm.Kind] {
			result = append(result, pm)
		}
	}
	return result
}

func packageSteps(managers []manifest.PackageManager) []Step {
	var steps []Step
	for _, pm := range managers {
		for _, pkg := range pm.Packages {
			steps = append(steps, Step{
				Kind:    StepPackage,
				Manager: pm.Kind,
				Sudo:    pm.Sudo,
				Package: pkg.App,
				Argv:    renderArgv(pm, pkg),
			})
		}
	}
	return steps
}

// renderArgv builds "[sudo] <kind> <flags...> <app>", dropping empty flags.
func renderArgv(pm manifest.PackageManager, pkg manifest.Package) []string {
	argv := make([]string, 0, len(pkg.Flags)+3)
	if pm.Sudo {
		argv = append(argv, "sudo")
	}
	argv = append(argv, pm.Kind)
	for _, f := range pkg.Flags {
		if strings.TrimSpace(f) != "" {
			argv = append(argv, f)
		}
	}
	return append(argv, pkg.App)
}

func customSteps(custom []manifest.CustomStep) []Step {
	steps := make([]Step, 0, len(custom))
	for _, c := range custom {
		steps = append(steps, Step{Kind: StepCustom, Custom: c})
	}
	return steps
}

// Managers returns the distinct package-manager kinds used by the plan, in
// first-use order.
func Managers(steps []Step) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, s := range steps {
		if s.Kind != StepPackage || seen[s.Manager] {
			continue
		}
		seen[s.Manager] = true
		kinds = append(kinds, s.Manager)
	}
	return kinds
}
