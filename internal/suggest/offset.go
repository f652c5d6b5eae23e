package suggest

import "github.com/refracthq/refract/internal/review"

// OffsetIndex converts 1-based line/column positions into byte offsets
// within one file's text. Offsets always land on UTF-8 boundaries, so
// slicing the text at them cannot split a multi-byte sequence.
type OffsetIndex struct {
	text       string
	lineStarts []int
}

// NewOffsetIndex scans text once, recording the byte offset following
// every newline plus offset zero for line one.
func NewOffsetIndex(text string) *OffsetIndex {
	lineStarts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &OffsetIndex{text: text, lineStarts: lineStarts}
}

// Offset resolves a position to a byte offset. A zero column counts as
// column one. Columns advance by Unicode code points within the line;
// exactly one past the last code point addresses the line's end. One
// line past the recorded starts addresses the end of the text, at
// column one only.
func (idx *OffsetIndex) Offset(pos review.Position) (int, error) {
	if pos.Line < 1 {
		return 0, &Error{Kind: KindLineOutOfBounds, Line: pos.Line}
	}

	lineIndex := pos.Line - 1
	if lineIndex > len(idx.lineStarts) {
		return 0, &Error{Kind: KindLineOutOfBounds, Line: pos.Line}
	}

	column := pos.Column
	if column == 0 {
		column = 1
	}

	if lineIndex == len(idx.lineStarts) {
		if column == 1 {
			return len(idx.text), nil
		}
		return 0, &Error{Kind: KindColumnOutOfBounds, Line: pos.Line, Column: column}
	}

	lineStart := idx.lineStarts[lineIndex]
	lineEnd := len(idx.text)
	if lineIndex+1 < len(idx.lineStarts) {
		lineEnd = idx.lineStarts[lineIndex+1]
	}

	if column == 1 {
		return lineStart, nil
	}

	current := 1
	for offset := range idx.text[lineStart:lineEnd] {
		if current == column {
			return lineStart + offset, nil
		}
		current++
	}
	if current == column {
		return lineEnd, nil
	}

	return 0, &Error{Kind: KindColumnOutOfBounds, Line: pos.Line, Column: column}
}
