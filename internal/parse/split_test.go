package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   \t ", nil},
		{"plain fields", "pull /sdcard/DCIM", []string{"pull", "/sdcard/DCIM"}},
		{"double quoted path with spaces", `pull "/sdcard/My Photos"`, []string{"pull", "/sdcard/My Photos"}},
		{"single quotes keep metacharacters", `decode '/tmp/a;rm -rf.ab'`, []string{"decode", "/tmp/a;rm -rf.ab"}},
		{"escaped space", `pull /sdcard/My\ Photos`, []string{"pull", "/sdcard/My Photos"}},
		{"empty quoted argument", `search ""`, []string{"search", ""}},
		{"adjacent quotes join", `a"b c"d`, []string{"ab cd"}},
		{"collapsed whitespace", "a   b\t c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArgsErrors(t *testing.T) {
	for _, in := range []string{`"unterminated`, `'unterminated`, `trailing\`} {
		_, err := SplitArgs(in)
		assert.Error(t, err, "input %q", in)
	}
}
