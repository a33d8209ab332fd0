// Package cli implements the command-line interface for the installer.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"installer/internal/config"
	"installer/internal/executor"
	"installer/internal/installer"
	"installer/internal/plan"
	"installer/internal/ui"
	"installer/pkg/host"
	"installer/pkg/manifest"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "installer [flags...] <manifest-path-or-url>",
	Short: "Bootstrap a Linux machine from an install manifest",
	Long: `installer reads a manifest of package-manager installs and custom
scripts, prints the resolved plan, and runs every step in order. A failing
step is reported and the remaining steps still run.

The manifest is a local path or an http(s) URL, in JSON or YAML (.yaml, .yml).

Flags:
  --help, -h             print this help
  --target=A,B, -t=A,B   only run package managers of kind A, B
  --order=X,Y            force execution order by manifest key
                         (package_manager, custom, or a custom step name)
  --dry-run, -n          print the plan and run nothing
  --interactive, -i      confirm before running
  --yes, -y              never prompt
  --verbose, -v          print commands as they run
  --no-color             disable colored output
  --config=PATH          tool configuration file (TOML)

Examples:
  installer setup.json
  installer --target=pacman setup.json
  installer --order=custom,package_manager https://example.com/setup.json
  installer -n setup.yaml`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runInstaller,
}

func init() {
	rootCmd.SetUsageTemplate("Usage:\n  {{.UseLine}}\n")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()

	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Err == nil) {
		ui.ErrorMsg("%v", err)
	}

	return err
}

func runInstaller(cmd *cobra.Command, args []string) error {
	rc, source, warnings, err := ParseArgs(args)
	if err != nil {
		for _, w := range warnings {
			ui.WarningMsg("%s", w)
		}
		cmd.PrintErrln(cmd.UsageString())
		return exitError(ExitUsage, err)
	}
	if rc.Help {
		return cmd.Help()
	}

	cfg, err := loadConfig(rc)
	if err != nil {
		return exitError(ExitUsage, err)
	}
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	for _, w := range warnings {
		ui.WarningMsg("%s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := manifest.Load(ctx, source)
	if err != nil {
		return exitError(ExitUsage, err)
	}

	steps := plan.Build(m, plan.Options{Targets: rc.Targets, Order: rc.Order})

	missing := showPlan(steps)
	if len(steps) == 0 {
		ui.SuccessMsg("Done installing packages..")
		return nil
	}

	if !rc.DryRun && !rc.Yes && (rc.Interactive || cfg.General.Confirm) {
		confirmed, err := ui.Confirm("Proceed with installation?", true)
		if err != nil {
			return exitError(ExitUsage, err)
		}
		if !confirmed {
			ui.WarningMsg("%v", ErrAborted)
			return nil
		}
	}

	for _, mgr := range missing {
		ui.WarningMsg("%s is not installed; its steps will fail", mgr)
	}
	if needsSudo(steps) {
		if err := executor.CheckPrivileges(true); err != nil {
			ui.WarningMsg("%v; sudo steps will fail", err)
		}
	}

	in := installer.New(executor.New(rc.DryRun, cfg.Output.Verbose), installer.Options{
		Timeout:  cfg.General.StepTimeout.Duration,
		TempRoot: cfg.ScriptTempRoot(),
	})

	return report(in.Run(ctx, steps), rc.DryRun)
}

// loadConfig reads the tool configuration and applies flag overrides.
func loadConfig(rc RunConfig) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rc.ConfigPath != "" {
		cfg, err = config.LoadFrom(rc.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if rc.Verbose {
		cfg.Output.Verbose = true
	}
	if rc.NoColor {
		cfg.Output.Color = false
	}

	return cfg, nil
}

// showPlan prints the host and the resolved plan, and returns the package
// manager kinds that are not on PATH.
func showPlan(steps []plan.Step) []string {
	info := host.Detect()
	found, missing := host.Available(plan.Managers(steps))
	ui.PrintHostInfo(info.PrettyName, info.Arch, found)

	notInstalled := make(map[string]bool, len(missing))
	for _, mgr := range missing {
		notInstalled[mgr] = true
	}
	ui.PrintPlan(os.Stdout, steps, notInstalled)

	return missing
}

func needsSudo(steps []plan.Step) bool {
	for _, s := range steps {
		if s.Sudo {
			return true
		}
	}
	return false
}
