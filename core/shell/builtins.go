package shell

import (
	"strconv"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Exit quits the shell with the status given as the first argument. A missing
// or unparsable status exits with 0.
func Exit(s *Shell, args []string) int {
	code := 0
	if len(args) > 1 {
		if parsed, err := strconv.ParseInt(args[1], 10, 32); err == nil {
			code = int(parsed)
		}
	}

	s.Quit = true
	s.exitCode = code
	s.Exit(code)
	return code
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
