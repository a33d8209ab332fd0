// Package installer runs a plan step by step. A failing step is recorded and
// the rest of the plan still runs.
package installer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"installer/internal/executor"
	"installer/internal/plan"
	"installer/internal/ui"
	"installer/pkg/manifest"
)

// Options configures an Installer.
type Options struct {
	// Timeout bounds each step. Zero means executor.DefaultTimeout.
	Timeout time.Duration
	// TempRoot is where web scripts get their working directory. Empty uses os.TempDir().
	TempRoot string
	// Client downloads web scripts. Nil uses http.DefaultClient.
	Client *http.Client
	// Quiet suppresses progress messages.
	Quiet bool
}

// Installer executes plan steps sequentially.
type Installer struct {
	exec     *executor.Executor
	timeout  time.Duration
	tempRoot string
	client   *http.Client
	quiet    bool
}

// New creates an Installer that runs commands through exec.
func New(exec *executor.Executor, opts Options) *Installer {
	if opts.Timeout <= 0 {
		opts.Timeout = executor.DefaultTimeout
	}
	if opts.TempRoot == "" {
		opts.TempRoot = os.TempDir()
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Installer{
		exec:     exec,
		timeout:  opts.Timeout,
		tempRoot: opts.TempRoot,
		client:   opts.Client,
		quiet:    opts.Quiet,
	}
}

// Run executes every step in order and returns one result per step.
func (in *Installer) Run(ctx context.Context, steps []plan.Step) []StepResult {
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		if !in.quiet {
			ui.InfoMsg("[%d/%d] %s", i+1, len(steps), step.String())
		}

		res := in.RunStep(ctx, step)
		results = append(results, res)

		if !in.quiet && !res.OK() {
			ui.ErrorMsg("%s: %s", step.Name(), res.String())
		}
	}

	return results
}

// RunStep executes a single step.
func (in *Installer) RunStep(ctx context.Context, step plan.Step) StepResult {
	if step.Kind == plan.StepPackage {
		return in.runPackage(ctx, step)
	}

	if msg := step.Custom.Message(); msg != "" && !in.quiet {
		ui.MessageMsg("%s", msg)
	}

	if local, ok := step.Custom.Local(); ok {
		return in.runLocal(ctx, step, local)
	}
	web, _ := step.Custom.Web()
	return in.runWeb(ctx, step, web)
}

func (in *Installer) runPackage(ctx context.Context, step plan.Step) StepResult {
	argv := step.Argv
	if step.Sudo && len(argv) > 0 && argv[0] == "sudo" {
		argv = argv[1:]
	}
	if len(argv) == 0 {
		return setupError(step, errors.New("empty command"))
	}

	return in.finish(step, in.exec.Run(ctx, executor.Command{
		Name:          argv[0],
		Args:          argv[1:],
		Timeout:       in.timeout,
		InheritOutput: true,
		Sudo:          step.Sudo,
	}))
}

func (in *Installer) runLocal(ctx context.Context, step plan.Step, local manifest.LocalStep) StepResult {
	dir, err := filepath.Abs(local.Path)
	if err != nil {
		return setupError(step, err)
	}
	script := filepath.Join(dir, local.Name)

	if !in.exec.DryRun() {
		if err := makeExecutable(script); err != nil {
			return setupError(step, err)
		}
	}

	return in.finish(step, in.exec.Run(ctx, executor.Command{
		Name:          script,
		Dir:           dir,
		Timeout:       in.timeout,
		InheritOutput: true,
	}))
}

func (in *Installer) runWeb(ctx context.Context, step plan.Step, web manifest.WebStep) StepResult {
	if in.exec.DryRun() {
		ui.MutedMsg("[dry-run] Would download %s", web.URL)
		return in.finish(step, in.exec.Run(ctx, executor.Command{
			Name:          "./" + web.Name,
			Timeout:       in.timeout,
			InheritOutput: true,
		}))
	}

	dir, err := os.MkdirTemp(in.tempRoot, "installer-")
	if err != nil {
		return setupError(step, fmt.Errorf("failed to create working directory: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			ui.WarningMsg("Failed to remove %s: %v", dir, err)
		}
	}()

	script := filepath.Join(dir, web.Name)
	download := func() error {
		return in.download(ctx, web.URL, script)
	}
	if in.quiet {
		err = download()
	} else {
		err = ui.WithSpinner("Downloading "+web.Name, download)
	}
	if err != nil {
		return setupError(step, err)
	}

	return in.finish(step, in.exec.Run(ctx, executor.Command{
		Name:          script,
		Dir:           dir,
		Timeout:       in.timeout,
		InheritOutput: true,
	}))
}

// finish converts an executor result into a StepResult.
func (in *Installer) finish(step plan.Step, res executor.Result) StepResult {
	switch {
	case res.DryRun:
		r := succeeded(step, 0)
		r.DryRun = true
		return r
	case res.TimedOut:
		return StepResult{
			Step:     step,
			Status:   StatusTimedOut,
			ExitCode: -1,
			Err:      fmt.Errorf("%w: %v", ErrStepTimedOut, res.Err),
			Duration: res.Duration,
		}
	case res.Err == nil && res.ExitCode == 0:
		return succeeded(step, res.Duration)
	}

	var exitErr *exec.ExitError
	if !errors.As(res.Err, &exitErr) {
		// The process never ran.
		return setupError(step, res.Err)
	}

	return StepResult{
		Step:     step,
		Status:   StatusFailed,
		ExitCode: res.ExitCode,
		Err:      fmt.Errorf("%w: %s exited with code %d", ErrStepFailed, step.Name(), res.ExitCode),
		Duration: res.Duration,
	}
}

// makeExecutable adds the execute bits to path, like chmod +x.
func makeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err := os.Chmod(path, info.Mode().Perm()|0111); err != nil {
		return fmt.Errorf("chmod +x %s: %w", path, err)
	}
	return nil
}
