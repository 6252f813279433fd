//go:build !unix

package engine

// Forker is unavailable on this platform, every command fails to spawn.
type Forker struct {
	stdio Stdio
}

var _ Engine = (*Forker)(nil)

// NewForker creates a Forker.
func NewForker(stdio Stdio) *Forker {
	return &Forker{stdio: stdio}
}

// Execute implements Engine.Execute.
func (f *Forker) Execute(program string, args []string) Outcome {
	if _, err := Argv(program, args); err != nil {
		return SpawnFailure(err)
	}
	return spawnFailure(program, ErrUnsupported)
}
