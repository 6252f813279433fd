// Package shell implements the rush read-eval loop.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/josephlewis42/rush/core/engine"
	"github.com/josephlewis42/rush/core/logger"
)

// DefaultPrompt is written before each line is read.
const DefaultPrompt = "rush> "

// EventRecorder stores shell events.
type EventRecorder interface {
	Record(event logger.LogType) error
}

type nopRecorder struct{}

func (nopRecorder) Record(logger.LogType) error {
	return nil
}

// Shell reads command lines and runs them one at a time.
type Shell struct {
	Engine   engine.Engine
	Reporter *engine.Reporter
	Tokenize Tokenizer
	Prompt   string
	Events   EventRecorder

	// Exit terminates the shell process, it's called by the exit builtin.
	Exit func(code int)

	// Set to true to quit the shell
	Quit bool

	// LastOutcome holds the result of the most recent program.
	LastOutcome engine.Outcome

	in       *bufio.Reader
	out      io.Writer
	exitCode int
}

// NewShell creates a shell that reads commands from stdin, prompts on stdout
// and reports diagnostics on stderr. Programs are run by eng.
func NewShell(eng engine.Engine, stdin io.Reader, stdout, stderr io.Writer) *Shell {
	return &Shell{
		Engine:   eng,
		Reporter: engine.NewReporter(stderr, false),
		Tokenize: Whitespace,
		Prompt:   DefaultPrompt,
		Events:   nopRecorder{},
		Exit:     os.Exit,

		in:  bufio.NewReader(stdin),
		out: stdout,
	}
}

// Run prompts for and executes lines until the input is closed or the exit
// builtin is called. It returns the shell's exit status.
func (s *Shell) Run() int {
	for !s.Quit {
		s.writePrompt()
		line, err := s.in.ReadString('\n')

		switch {
		case err == io.EOF && line == "":
			fmt.Fprintln(s.out)
			return 0 // Input closed, quit.

		case err != nil && err != io.EOF:
			s.Reporter.Printf("read error: %v", err)
			continue

		default:
			// A final line without a newline still runs, EOF is seen on the
			// next read.
			s.RunLine(line)
		}
	}
	return s.exitCode
}

func (s *Shell) writePrompt() {
	fmt.Fprint(s.out, s.Prompt)
	if f, ok := s.out.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// RunLine tokenizes line and dispatches it to a builtin or the engine.
func (s *Shell) RunLine(line string) {
	tokens, err := s.Tokenize(strings.TrimSpace(line))
	if err != nil {
		s.Reporter.Printf("rush: syntax error: %v", err)
		return
	}
	if len(tokens) == 0 {
		return // empty line
	}

	if builtin, ok := AllBuiltins[tokens[0]]; ok {
		// Recorded first because exit doesn't return.
		s.record(&logger.Builtin{Command: tokens})
		builtin.Main(s, tokens)
		return
	}

	start := time.Now()
	outcome := s.Engine.Execute(tokens[0], tokens[1:])
	duration := time.Since(start)

	s.LastOutcome = outcome
	s.Reporter.Outcome(tokens[0], outcome)

	event := &logger.RunCommand{
		Command:        tokens,
		Outcome:        outcome.Kind.String(),
		ExitCode:       outcome.ExitCode(),
		Signal:         outcome.Signal,
		DurationMicros: duration.Microseconds(),
	}
	if outcome.Err != nil {
		event.Error = outcome.Err.Error()
	}
	s.record(event)
}

func (s *Shell) record(event logger.LogType) {
	if err := s.Events.Record(event); err != nil {
		log.Printf("Error recording event: %v", err)
	}
}
