// Package parse provides tokenizing helpers for console input.
package parse

import "fmt"

// SplitArgs splits a console input line into discrete arguments, honoring
// single quotes, double quotes and backslash escapes. The line is never
// handed to a shell interpreter, so file names containing metacharacters
// stay plain arguments. An unterminated quote or trailing escape is an
// error so a mistyped command is rejected instead of silently mangled.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     []rune
		quote   rune
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur = append(cur, r)
			}
		case r == '\\':
			escaped = true
			started = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur = append(cur, r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t':
			if started {
				args = append(args, string(cur))
				cur = cur[:0]
				started = false
			}
		default:
			cur = append(cur, r)
			started = true
		}
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if started {
		args = append(args, string(cur))
	}
	return args, nil
}
