package diff

import (
	"strings"
	"unicode/utf8"
)

const hunkDelimiter = "@@"

// ExtractSection derives the section label from raw hunk header bytes:
// the trimmed text after the last "@@" token. Returns "" for headers
// that are not valid UTF-8, carry no delimiter, or have an empty
// remainder.
func ExtractSection(header []byte) string {
	if !utf8.Valid(header) {
		return ""
	}

	text := strings.TrimRight(string(header), "\r\n")
	idx := strings.LastIndex(text, hunkDelimiter)
	if idx < 0 {
		return ""
	}

	return strings.TrimSpace(text[idx+len(hunkDelimiter):])
}
