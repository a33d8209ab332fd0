package installer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"installer/internal/plan"
)

var (
	// ErrStepSetup is returned when a step could not be started: missing
	// executable, no sudo, download or permission failure.
	ErrStepSetup = errors.New("step setup failed")

	// ErrStepFailed is returned when a step's process exits non-zero.
	ErrStepFailed = errors.New("step failed")

	// ErrStepTimedOut is returned when a step is killed after its timeout.
	ErrStepTimedOut = errors.New("step timed out")
)

// Status is the outcome of one step.
type Status string

const (
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusTimedOut   Status = "timed out"
	StatusSetupError Status = "setup error"
)

// StepResult records how a plan step ended.
type StepResult struct {
	Step     plan.Step
	Status   Status
	ExitCode int
	// Err wraps one of ErrStepSetup, ErrStepFailed or ErrStepTimedOut.
	Err      error
	Duration time.Duration
	DryRun   bool
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool {
	return r.Status == StatusSucceeded
}

// String renders the outcome as Succeeded, Failed(code), TimedOut or
// SetupError(reason).
func (r StepResult) String() string {
	switch r.Status {
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return fmt.Sprintf("Failed(%d)", r.ExitCode)
	case StatusTimedOut:
		return "TimedOut"
	default:
		reason := "unknown"
		if r.Err != nil {
			reason = strings.TrimPrefix(r.Err.Error(), ErrStepSetup.Error()+": ")
		}
		return "SetupError(" + reason + ")"
	}
}

func succeeded(step plan.Step, d time.Duration) StepResult {
	return StepResult{Step: step, Status: StatusSucceeded, Duration: d}
}

func setupError(step plan.Step, err error) StepResult {
	return StepResult{
		Step:     step,
		Status:   StatusSetupError,
		ExitCode: -1,
		Err:      fmt.Errorf("%w: %w", ErrStepSetup, err),
	}
}

// Summary counts results by outcome.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
	Setup     int
}

// Summarize tallies results.
func Summarize(results []StepResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusTimedOut:
			s.TimedOut++
		case StatusSetupError:
			s.Setup++
		}
	}
	return s
}

// OK reports whether every step succeeded.
func (s Summary) OK() bool {
	return s.Succeeded == s.Total
}
