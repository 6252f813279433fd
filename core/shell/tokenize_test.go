package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitespace(t *testing.T) {
	cases := []struct {
		line     string
		expected []string
	}{
		{"", nil},
		{"echo hello", []string{"echo", "hello"}},
		{"echo   a\t\tb", []string{"echo", "a", "b"}},
		{"echo 'a b'", []string{"echo", "'a", "b'"}},
		{"echo $HOME *", []string{"echo", "$HOME", "*"}},
		{"a\x00b c", []string{"a\x00b", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			actual, err := Whitespace(tc.line)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestShlex(t *testing.T) {
	actual, err := Shlex(`printf '%s\n' "two words" three`)
	assert.Nil(t, err)
	assert.Equal(t, []string{"printf", `%s\n`, "two words", "three"}, actual)

	_, err = Shlex(`echo "unterminated`)
	assert.Error(t, err)
}

func TestTokenizerByName(t *testing.T) {
	assert.Equal(t, []string{"shlex", "whitespace"}, TokenizerNames())

	for _, name := range TokenizerNames() {
		tok, err := TokenizerByName(name)
		assert.Nil(t, err)
		assert.NotNil(t, tok)
	}

	_, err := TokenizerByName("bash")
	assert.EqualError(t, err, `unknown tokenizer "bash", expected one of: shlex, whitespace`)
}
