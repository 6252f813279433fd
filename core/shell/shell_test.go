package shell

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/rush/core/engine"
	"github.com/josephlewis42/rush/core/logger"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns canned outcomes keyed by program name and records every
// call.
type fakeEngine struct {
	calls    [][]string
	outcomes map[string]engine.Outcome
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		outcomes: map[string]engine.Outcome{
			"ok":    engine.Exited(0),
			"fail":  engine.Exited(1),
			"crash": engine.Signaled(11),
			"missing": engine.SpawnFailure(&engine.SpawnError{
				Program: "missing",
				Err:     errors.New("executable file not found in $PATH"),
			}),
			"lost": engine.WaitFailure(errors.New("no child processes")),
		},
	}
}

func (f *fakeEngine) Execute(program string, args []string) engine.Outcome {
	f.calls = append(f.calls, append([]string{program}, args...))
	return f.outcomes[program]
}

var _ engine.Engine = (*fakeEngine)(nil)

type testShell struct {
	*Shell
	engine    *fakeEngine
	output    *bytes.Buffer
	exitCalls []int
}

func newTestShell(input io.Reader) *testShell {
	out := &bytes.Buffer{}
	eng := newFakeEngine()
	ts := &testShell{
		Shell:  NewShell(eng, input, out, out),
		engine: eng,
		output: out,
	}
	ts.Exit = func(code int) {
		ts.exitCalls = append(ts.exitCalls, code)
	}
	return ts
}

func TestShell_transcripts(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cases := map[string]string{
		"mixed": "ok\n\n   \nfail\ncrash\nmissing arg\nlost\n",
		"exit":  "ok\nexit 42\nok\n",
	}

	for tn, input := range cases {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell(strings.NewReader(input))
			ts.Run()

			g.Assert(t, "shell-"+tn, ts.output.Bytes())
		})
	}
}

func TestShell_blankLines(t *testing.T) {
	ts := newTestShell(strings.NewReader("\n   \n\t \t\n"))

	code := ts.Run()

	assert.Equal(t, 0, code)
	assert.Empty(t, ts.engine.calls)
	assert.Equal(t, "rush> rush> rush> rush> \n", ts.output.String())
}

func TestShell_dispatch(t *testing.T) {
	ts := newTestShell(strings.NewReader("  ok   a\tb  \nfail x\n"))

	ts.Run()

	assert.Equal(t, [][]string{{"ok", "a", "b"}, {"fail", "x"}}, ts.engine.calls)
	assert.Equal(t, engine.ExitedWithCode, ts.LastOutcome.Kind)
}

func TestShell_oneDiagnosticPerFailure(t *testing.T) {
	ts := newTestShell(strings.NewReader("fail\nok\n"))

	ts.Run()

	assert.Equal(t, 1, strings.Count(ts.output.String(), "command exited with code 1"))
	assert.Equal(t, 3, strings.Count(ts.output.String(), DefaultPrompt))
}

func TestShell_endOfInput(t *testing.T) {
	ts := newTestShell(strings.NewReader(""))

	code := ts.Run()

	assert.Equal(t, 0, code)
	assert.Empty(t, ts.exitCalls, "end of input must not call exit")
	assert.Equal(t, "rush> \n", ts.output.String())
}

func TestShell_lastLineWithoutNewline(t *testing.T) {
	ts := newTestShell(strings.NewReader("ok one"))

	code := ts.Run()

	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"ok", "one"}}, ts.engine.calls)
	assert.Equal(t, "rush> rush> \n", ts.output.String())
}

func TestShell_exit(t *testing.T) {
	cases := map[string]int{
		"exit\n":             0,
		"exit 42\n":          42,
		"exit notanumber\n":  0,
		"exit -1\n":          -1,
		"exit +7\n":          7,
		"exit 99999999999\n": 0,
		"  exit   3  \n":     3,
		"exit 5 6\n":         5,
	}

	for input, expected := range cases {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			ts := newTestShell(strings.NewReader(input + "ok\n"))

			code := ts.Run()

			assert.Equal(t, expected, code)
			assert.Equal(t, []int{expected}, ts.exitCalls)
			assert.Empty(t, ts.engine.calls, "nothing runs after exit")
		})
	}
}

type flakyReader struct {
	failures int
	r        io.Reader
}

func (f *flakyReader) Read(b []byte) (int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("input/output error")
	}
	return f.r.Read(b)
}

func TestShell_readError(t *testing.T) {
	ts := newTestShell(&flakyReader{failures: 1, r: strings.NewReader("ok\n")})

	code := ts.Run()

	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"ok"}}, ts.engine.calls)
	assert.Equal(t, "rush> read error: input/output error\nrush> rush> \n", ts.output.String())
}

func TestShell_invalidName(t *testing.T) {
	out := &bytes.Buffer{}
	sh := NewShell(engine.NewSpawner(engine.Stdio{}), strings.NewReader("bad\x00name arg\n"), out, out)

	code := sh.Run()

	assert.Equal(t, 0, code)
	assert.Equal(t, engine.SpawnFailed, sh.LastOutcome.Kind)
	assert.ErrorIs(t, sh.LastOutcome.Err, engine.ErrInvalidName)
	assert.Equal(t, "rush> invalid command name (contains NUL byte)\nrush> \n", out.String())
}

func TestShell_shlex(t *testing.T) {
	ts := newTestShell(strings.NewReader("ok 'a b' \"c\"\nok 'open\n"))
	ts.Tokenize = Shlex

	ts.Run()

	assert.Equal(t, [][]string{{"ok", "a b", "c"}}, ts.engine.calls)
	assert.Contains(t, ts.output.String(), "rush: syntax error:")
}

func TestShell_events(t *testing.T) {
	var entries []*logger.LogEntry
	l := &logger.Logger{Record: func(le *logger.LogEntry) error {
		entries = append(entries, le)
		return nil
	}}

	ts := newTestShell(strings.NewReader("fail now\nmissing\nexit 2\n"))
	ts.Events = l.NewSession()

	ts.Run()

	require.Len(t, entries, 3)

	failed := entries[0].RunCommand
	require.NotNil(t, failed)
	assert.Equal(t, []string{"fail", "now"}, failed.Command)
	assert.Equal(t, "exited", failed.Outcome)
	assert.Equal(t, 1, failed.ExitCode)

	missing := entries[1].RunCommand
	require.NotNil(t, missing)
	assert.Equal(t, "spawn_failed", missing.Outcome)
	assert.Equal(t, 127, missing.ExitCode)
	assert.Equal(t, "executable file not found in $PATH", missing.Error)

	builtin := entries[2].Builtin
	require.NotNil(t, builtin)
	assert.Equal(t, []string{"exit", "2"}, builtin.Command)
}
