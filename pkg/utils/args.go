package utils

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errOpenQuote  = errors.New("unterminated quote in path list")
	errOpenEscape = errors.New("unfinished escape sequence in path list")
)

// SplitCommandLine splits a shell-like line into words. Single and double
// quotes group words and a backslash escapes the next rune.
func SplitCommandLine(input string) ([]string, error) {
	var (
		words   []string
		word    strings.Builder
		inWord  bool
		quote   rune
		pending bool
	)
	flush := func() {
		if inWord {
			words = append(words, word.String())
			word.Reset()
			inWord = false
		}
	}

	for _, r := range input {
		if pending {
			word.WriteRune(r)
			pending = false
			continue
		}
		switch {
		case r == '\\' && quote != '\'':
			pending, inWord = true, true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			word.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			flush()
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	switch {
	case pending:
		return nil, errOpenEscape
	case quote != 0:
		return nil, errOpenQuote
	}
	flush()
	return words, nil
}

// ParseArgs splits a field holding several paths. A blank field yields nil.
func ParseArgs(input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	return SplitCommandLine(input)
}
