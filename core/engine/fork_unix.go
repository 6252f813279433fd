//go:build unix

package engine

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Forker runs commands by duplicating the shell and replacing the duplicate's
// image, then waiting on the duplicate's pid.
type Forker struct {
	stdio Stdio

	mu sync.Mutex
}

var _ Engine = (*Forker)(nil)

// NewForker creates a Forker whose children inherit stdio. Streams must be
// *os.File (or nil) because they are passed down as descriptors.
func NewForker(stdio Stdio) *Forker {
	return &Forker{stdio: stdio}
}

// Execute implements Engine.Execute.
func (f *Forker) Execute(program string, args []string) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	argv, err := Argv(program, args)
	if err != nil {
		return SpawnFailure(err)
	}

	path, err := lookPath(program)
	if err != nil {
		return spawnFailure(program, err)
	}

	files, closeFiles, err := inheritedFiles(f.stdio)
	if err != nil {
		return spawnFailure(program, err)
	}
	defer closeFiles()

	fds := make([]uintptr, len(files))
	for i, fd := range files {
		fds[i] = fd.Fd()
	}

	// ForkExec only returns in the parent. The duplicate either becomes path
	// or exits at once, reporting the exec errno back over a close-on-exec
	// pipe before ForkExec reaps it, so it can never keep running shell code.
	pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: fds,
	})
	runtime.KeepAlive(files)
	if err != nil {
		return spawnFailure(program, err)
	}

	return waitPid(pid)
}

// waitPid blocks until pid terminates. Interrupted waits are retried. Wait4
// is called without WUNTRACED or WCONTINUED so stopped children aren't
// reported; any other status just waits again.
func waitPid(pid int) Outcome {
	for {
		var status unix.WaitStatus
		_, err := unix.Wait4(pid, &status, 0, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return WaitFailure(err)
		case status.Exited():
			return Exited(status.ExitStatus())
		case status.Signaled():
			return Signaled(int(status.Signal()))
		}
	}
}

// inheritedFiles resolves stdio to the files the child gets as fds 0-2. Nil
// streams are opened on the null device and must be closed by the caller.
func inheritedFiles(stdio Stdio) ([]*os.File, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, fd := range opened {
			fd.Close()
		}
	}

	streams := []interface{}{stdio.Stdin, stdio.Stdout, stdio.Stderr}
	files := make([]*os.File, 0, len(streams))
	for i, stream := range streams {
		switch s := stream.(type) {
		case *os.File:
			files = append(files, s)
		case nil:
			flag := os.O_WRONLY
			if i == 0 {
				flag = os.O_RDONLY
			}
			null, err := os.OpenFile(os.DevNull, flag, 0)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			opened = append(opened, null)
			files = append(files, null)
		default:
			closeAll()
			return nil, nil, streamError(i)
		}
	}
	return files, closeAll, nil
}

func streamError(i int) error {
	names := []string{"stdin", "stdout", "stderr"}
	return fmt.Errorf("%s: %w", names[i], ErrNotFileStream)
}
