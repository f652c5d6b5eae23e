package git

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFuncNameLength caps section text at git's default width, counted
// in code points.
const maxFuncNameLength = 80

// scanFuncName finds the enclosing-function text for a hunk: the
// nearest base-side line strictly before the hunk whose first character
// is a letter, underscore or dollar sign. Returns "" when none exists.
func scanFuncName(baseLines []string, beforeCount int) string {
	if beforeCount > len(baseLines) {
		beforeCount = len(baseLines)
	}

	for i := beforeCount - 1; i >= 0; i-- {
		line := strings.TrimRight(baseLines[i], "\r\n")
		r, _ := utf8.DecodeRuneInString(line)
		if r == utf8.RuneError {
			continue
		}
		if unicode.IsLetter(r) || r == '_' || r == '$' {
			return truncateRunes(strings.TrimRight(line, " \t"), maxFuncNameLength)
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
