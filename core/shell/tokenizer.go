package shell

import "strings"

// DefaultMaxTokens is how many tokens of a line are interpreted when the
// configuration doesn't override the limit.
const DefaultMaxTokens = 39

// Split breaks a line into tokens on runs of spaces. An empty or
// all-space line yields no tokens. If the line holds more than limit
// tokens the first limit of them are returned together with
// ErrTokenLimit; the caller warns and interprets the truncated sequence.
//
// The returned slice is freshly allocated and the input line is never
// modified, so the same raw line can be replayed from history later.
func Split(line string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultMaxTokens
	}

	var tokens []string
	for _, tok := range strings.Split(line, " ") {
		if tok == "" {
			continue
		}
		if len(tokens) == limit {
			return tokens, ErrTokenLimit
		}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}
