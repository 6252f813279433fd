package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fatih/color"
)

// Kind classifies how a command ended.
type Kind int

const (
	// Success means the child exited with code 0.
	Success Kind = iota
	// ExitedWithCode means the child exited normally with a nonzero code.
	ExitedWithCode
	// TerminatedBySignal means the child was killed and has no exit code.
	TerminatedBySignal
	// SpawnFailed means no child was created.
	SpawnFailed
	// WaitFailed means the child was created but its termination couldn't be
	// observed.
	WaitFailed
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ExitedWithCode:
		return "exited"
	case TerminatedBySignal:
		return "signaled"
	case SpawnFailed:
		return "spawn_failed"
	case WaitFailed:
		return "wait_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the normalized result of executing one command. The zero value
// is a successful run.
type Outcome struct {
	Kind Kind
	// Code is the exit code for ExitedWithCode.
	Code int
	// Signal is the terminating signal number for TerminatedBySignal.
	Signal int
	// Err holds the reason for SpawnFailed and WaitFailed.
	Err error
}

// Exited builds the outcome of a normal exit.
func Exited(code int) Outcome {
	if code == 0 {
		return Outcome{Kind: Success}
	}
	return Outcome{Kind: ExitedWithCode, Code: code}
}

// Signaled builds the outcome of a child killed by sig.
func Signaled(sig int) Outcome {
	return Outcome{Kind: TerminatedBySignal, Signal: sig}
}

// SpawnFailure builds the outcome of a failed process creation.
func SpawnFailure(err error) Outcome {
	return Outcome{Kind: SpawnFailed, Err: err}
}

// WaitFailure builds the outcome of a failed wait.
func WaitFailure(err error) Outcome {
	return Outcome{Kind: WaitFailed, Err: err}
}

// ExitCode maps the outcome to a conventional shell status: the child's code,
// 128+N for signal N, 127 when nothing could be run and 1 when the wait
// failed.
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case Success:
		return 0
	case ExitedWithCode:
		return o.Code
	case TerminatedBySignal:
		return 128 + o.Signal
	case SpawnFailed:
		return 127
	default:
		return 1
	}
}

// Message returns the diagnostic for the outcome of running program, or the
// empty string if nothing should be reported.
func Message(program string, o Outcome) string {
	switch o.Kind {
	case Success:
		return ""
	case ExitedWithCode:
		return fmt.Sprintf("command exited with code %d", o.Code)
	case TerminatedBySignal:
		return "command terminated by signal"
	case SpawnFailed:
		if errors.Is(o.Err, ErrInvalidName) {
			return ErrInvalidName.Error()
		}
		return fmt.Sprintf("failed to execute '%s': %v", program, o.Err)
	case WaitFailed:
		return fmt.Sprintf("waitpid error: %v", o.Err)
	default:
		return fmt.Sprintf("unknown outcome: %s", o.Kind)
	}
}

// SpawnError reports why a child could not be created.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return e.Err.Error()
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// spawnFailure strips the lookup and path wrappers from err so every
// realization reports the same reason for the same failure.
func spawnFailure(program string, err error) Outcome {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		err = execErr.Err
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return SpawnFailure(&SpawnError{Program: program, Err: err})
}

// Reporter writes diagnostics to the shell's error stream.
type Reporter struct {
	w     io.Writer
	color *color.Color
}

// NewReporter creates a Reporter writing to w, optionally in red.
func NewReporter(w io.Writer, colorize bool) *Reporter {
	c := color.New(color.FgRed)
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return &Reporter{w: w, color: c}
}

// Outcome reports o if it warrants a diagnostic.
func (r *Reporter) Outcome(program string, o Outcome) {
	if msg := Message(program, o); msg != "" {
		r.color.Fprintln(r.w, msg)
	}
}

// Printf writes a single diagnostic line.
func (r *Reporter) Printf(format string, a ...interface{}) {
	r.color.Fprintln(r.w, fmt.Sprintf(format, a...))
}
