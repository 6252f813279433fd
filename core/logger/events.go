package logger

// LogType is implemented by every event that can be recorded.
type LogType interface {
	isLogType()
}

// ShellStart is recorded when an interactive shell begins.
type ShellStart struct {
	Engine    string `json:"engine"`
	Tokenizer string `json:"tokenizer"`
	PID       int    `json:"pid"`
}

// RunCommand is recorded after a program has been run and reaped.
type RunCommand struct {
	Command        []string `json:"command"`
	Outcome        string   `json:"outcome"`
	ExitCode       int      `json:"exit_code"`
	Signal         int      `json:"signal,omitempty"`
	Error          string   `json:"error,omitempty"`
	DurationMicros int64    `json:"duration_micros"`
}

// Builtin is recorded before a shell builtin runs.
type Builtin struct {
	Command []string `json:"command"`
}

func (*ShellStart) isLogType() {}
func (*RunCommand) isLogType() {}
func (*Builtin) isLogType()    {}

// LogEntry is a single line of the event log, exactly one event is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id"`

	ShellStart *ShellStart `json:"shell_start,omitempty"`
	RunCommand *RunCommand `json:"run_command,omitempty"`
	Builtin    *Builtin    `json:"builtin,omitempty"`
}

// GetLogType returns the event held by the entry, or nil.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.ShellStart != nil:
		return le.ShellStart
	case le.RunCommand != nil:
		return le.RunCommand
	case le.Builtin != nil:
		return le.Builtin
	default:
		return nil
	}
}

func (le *LogEntry) setLogType(event LogType) {
	switch event := event.(type) {
	case *ShellStart:
		le.ShellStart = event
	case *RunCommand:
		le.RunCommand = event
	case *Builtin:
		le.Builtin = event
	}
}
