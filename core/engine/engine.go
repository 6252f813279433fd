// Package engine runs external programs on behalf of the shell and
// classifies how they terminated.
package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// NameSpawn selects the os/exec based engine.
	NameSpawn = "spawn"
	// NameFork selects the fork+exec+wait4 engine.
	NameFork = "fork"

	// Placeholder replaces arguments that can't be passed to a process.
	Placeholder = "?"
)

var (
	// ErrInvalidName is the spawn failure reason for a program name that
	// contains a NUL byte.
	ErrInvalidName = errors.New("invalid command name (contains NUL byte)")

	// ErrUnsupported is the spawn failure reason for an engine that doesn't
	// work on this platform.
	ErrUnsupported = errors.New("engine not supported on this platform")

	// ErrNotFileStream is the spawn failure reason when a stream must be
	// inherited as a descriptor but isn't backed by a file.
	ErrNotFileStream = errors.New("stream is not backed by a file")
)

// Engine runs one command at a time to completion.
type Engine interface {
	// Execute runs program with args, blocks until it terminates and
	// classifies the result.
	Execute(program string, args []string) Outcome
}

// Stdio holds the standard streams a child inherits. A nil stream is
// connected to the null device.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSStdio returns the streams of the current process.
func OSStdio() Stdio {
	return Stdio{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

var constructors = map[string]func(Stdio) Engine{
	NameSpawn: func(stdio Stdio) Engine { return NewSpawner(stdio) },
	NameFork:  func(stdio Stdio) Engine { return NewForker(stdio) },
}

// Names lists the available engines.
func Names() []string {
	var out []string
	for name := range constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New creates the engine registered under name.
func New(name string, stdio Stdio) (Engine, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q, expected one of: %s", name, strings.Join(Names(), ", "))
	}
	return ctor(stdio), nil
}

// Argv builds the argument vector for program. Arguments containing a NUL
// byte are replaced with Placeholder, a program name containing one is
// rejected with ErrInvalidName.
func Argv(program string, args []string) ([]string, error) {
	if strings.IndexByte(program, 0) >= 0 {
		return nil, ErrInvalidName
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, program)
	for _, arg := range args {
		if strings.IndexByte(arg, 0) >= 0 {
			arg = Placeholder
		}
		argv = append(argv, arg)
	}
	return argv, nil
}

// lookPath resolves program against PATH the way the platform does for
// exec*p; names containing a slash are used as-is. Empty and "." entries
// search the working directory. If nothing matches but a candidate lacked
// execute permission the lookup fails with fs.ErrPermission.
func lookPath(program string) (string, error) {
	path, err := exec.LookPath(program)
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, exec.ErrDot):
		return path, nil
	case strings.ContainsRune(program, filepath.Separator):
		return "", err
	}

	if denied := firstDenied(program); denied != "" {
		return "", &os.PathError{Op: "exec", Path: denied, Err: fs.ErrPermission}
	}
	return "", err
}

// firstDenied returns the first regular file named program on PATH that has
// no execute bits.
func firstDenied(program string) string {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, program)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			return candidate
		}
	}
	return ""
}
