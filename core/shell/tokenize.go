package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// Names accepted by TokenizerByName.
const (
	// TokenizerWhitespace selects Whitespace.
	TokenizerWhitespace = "whitespace"
	// TokenizerShlex selects Shlex.
	TokenizerShlex = "shlex"
)

// Tokenizer splits a trimmed input line into a program name and arguments.
type Tokenizer func(line string) ([]string, error)

var tokenizers = map[string]Tokenizer{
	TokenizerWhitespace: Whitespace,
	TokenizerShlex:      Shlex,
}

// Whitespace splits line on runs of whitespace, nothing is quoted or escaped.
func Whitespace(line string) ([]string, error) {
	return strings.Fields(line), nil
}

// Shlex splits line using POSIX quoting rules. No expansion is performed.
func Shlex(line string) ([]string, error) {
	return shlex.Split(line, true)
}

// TokenizerNames lists the registered tokenizers.
func TokenizerNames() []string {
	var out []string
	for name := range tokenizers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TokenizerByName looks up a tokenizer.
func TokenizerByName(name string) (Tokenizer, error) {
	if tok, ok := tokenizers[name]; ok {
		return tok, nil
	}
	return nil, fmt.Errorf("unknown tokenizer %q, expected one of: %s", name, strings.Join(TokenizerNames(), ", "))
}
