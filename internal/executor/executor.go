// Package executor runs external commands with privilege escalation and timeout support.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is how long a single command may run before it is killed.
const DefaultTimeout = time.Hour

// waitDelay bounds how long Wait blocks on I/O after the process is killed.
const waitDelay = 10 * time.Second

// ErrNotFound is returned when the executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Timeout kills the process after the given duration. Zero means DefaultTimeout.
	Timeout time.Duration

	// InheritOutput connects the process to this process's stdin, stdout and
	// stderr. Otherwise stdout and stderr are captured into Result.Output.
	InheritOutput bool

	// Sudo runs the command through sudo unless already running as root.
	Sudo bool
}

// String renders the command line as it will be executed.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the outcome of a Command.
type Result struct {
	// ExitCode is the process exit code; -1 if it never started or was killed by a signal.
	ExitCode int
	// TimedOut is set when the process was killed because Timeout elapsed.
	TimedOut bool
	// Err is set when the process could not be started, or did not exit cleanly.
	Err error
	// Output holds captured stdout and stderr when InheritOutput is false.
	Output   string
	Duration time.Duration
	DryRun   bool
}

// Success reports whether the command ran and exited with status 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0 && !r.TimedOut
}

// Executor runs commands, optionally only printing them.
type Executor struct {
	dryRun  bool
	verbose bool
	out     io.Writer
}

// New creates a new Executor with the given options.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetOutput redirects the executor's own messages (verbose and dry-run lines).
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Run executes cmd synchronously and reports how it ended. It never panics on
// a failing process; every failure is described by the Result.
func (e *Executor) Run(ctx context.Context, cmd Command) Result {
	if e.dryRun {
		name, args := cmd.Name, cmd.Args
		if cmd.Sudo && !IsRoot() {
			name, args = "sudo", append([]string{cmd.Name}, cmd.Args...)
		}
		e.printDryRun(name, args, cmd.Dir)
		return Result{DryRun: true}
	}

	name, args, err := e.resolve(cmd)
	if err != nil {
		return Result{ExitCode: -1, Err: err}
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay

	var buf bytes.Buffer
	if cmd.InheritOutput {
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	} else {
		c.Stdout = &buf
		c.Stderr = &buf
	}

	if e.verbose {
		if cmd.Dir != "" {
			fmt.Fprintf(e.out, "Executing (in %s): %s %s\n", cmd.Dir, name, strings.Join(args, " "))
		} else {
			fmt.Fprintf(e.out, "Executing: %s %s\n", name, strings.Join(args, " "))
		}
	}

	start := time.Now()
	runErr := c.Run()
	res := Result{
		Output:   buf.String(),
		Duration: time.Since(start),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		res.Err = fmt.Errorf("%s timed out after %s", cmd.Name, timeout)
		return res
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		res.Err = runErr
	}

	return res
}

// resolve applies sudo elevation and checks that the executable exists.
func (e *Executor) resolve(cmd Command) (string, []string, error) {
	if cmd.Name == "" {
		return "", nil, fmt.Errorf("%w: empty command", ErrNotFound)
	}

	if !strings.ContainsRune(cmd.Name, os.PathSeparator) {
		if _, err := exec.LookPath(cmd.Name); err != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, cmd.Name)
		}
	}

	if !cmd.Sudo || IsRoot() {
		return cmd.Name, cmd.Args, nil
	}
	if !HasSudo() {
		return "", nil, ErrNoPrivileges
	}
	return "sudo", append([]string{cmd.Name}, cmd.Args...), nil
}

func (e *Executor) printDryRun(name string, args []string, dir string) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if dir != "" {
		fmt.Fprintf(e.out, "[dry-run] Would execute (in %s): %s\n", dir, line)
		return
	}
	fmt.Fprintf(e.out, "[dry-run] Would execute: %s\n", line)
}
