package engine

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// Spawner runs commands with os/exec, which duplicates, replaces and waits
// on the child internally.
type Spawner struct {
	stdio Stdio

	// Held for the whole life of a child so at most one exists.
	mu sync.Mutex
}

var _ Engine = (*Spawner)(nil)

// NewSpawner creates a Spawner whose children inherit stdio.
func NewSpawner(stdio Stdio) *Spawner {
	return &Spawner{stdio: stdio}
}

// Execute implements Engine.Execute.
func (s *Spawner) Execute(program string, args []string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	argv, err := Argv(program, args)
	if err != nil {
		return SpawnFailure(err)
	}

	path, err := lookPath(program)
	if err != nil {
		return spawnFailure(program, err)
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdin:  s.stdio.Stdin,
		Stdout: s.stdio.Stdout,
		Stderr: s.stdio.Stderr,
	}

	if err := cmd.Start(); err != nil {
		return spawnFailure(program, err)
	}

	return waitOutcome(cmd.Wait())
}

// waitOutcome classifies the result of Cmd.Wait, which also reports failures
// copying non-file streams.
func waitOutcome(waitErr error) Outcome {
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return Exited(0)
	case errors.As(waitErr, &exitErr):
		return stateOutcome(exitErr.ProcessState)
	default:
		return WaitFailure(waitErr)
	}
}

func stateOutcome(ps *os.ProcessState) Outcome {
	if status, ok := ps.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return Signaled(int(status.Signal()))
	}
	return Exited(ps.ExitCode())
}
