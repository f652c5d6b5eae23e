package suggest

import (
	"errors"
	"testing"

	"github.com/refracthq/refract/internal/review"
)

func TestOffsetIndex_BasicPositions(t *testing.T) {
	idx := NewOffsetIndex("line 1\nline 2\n")

	tests := []struct {
		name string
		pos  review.Position
		want int
	}{
		{"start of file", review.Position{Line: 1, Column: 1}, 0},
		{"middle of first line", review.Position{Line: 1, Column: 6}, 5},
		{"one past last rune of first line includes newline", review.Position{Line: 1, Column: 8}, 7},
		{"start of second line", review.Position{Line: 2, Column: 1}, 7},
		{"zero column treated as column 1", review.Position{Line: 2}, 7},
		{"end of second line", review.Position{Line: 2, Column: 7}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Offset(tt.pos)
			if err != nil {
				t.Fatalf("Offset(%+v) failed: %v", tt.pos, err)
			}
			if got != tt.want {
				t.Errorf("Offset(%+v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestOffsetIndex_EndOfFile(t *testing.T) {
	text := "line 1\nline 2\n"
	idx := NewOffsetIndex(text)

	// The virtual line after the final newline addresses end of file at
	// column 1 only.
	got, err := idx.Offset(review.Position{Line: 3, Column: 1})
	if err != nil {
		t.Fatalf("Offset at EOF failed: %v", err)
	}
	if got != len(text) {
		t.Errorf("Offset at EOF = %d, want %d", got, len(text))
	}

	_, err = idx.Offset(review.Position{Line: 3, Column: 2})
	var suggestErr *Error
	if !errors.As(err, &suggestErr) || suggestErr.Kind != KindColumnOutOfBounds {
		t.Fatalf("expected ColumnOutOfBounds at EOF column 2, got %v", err)
	}

	// Line 4 is the virtual line one past the recorded starts; it
	// still addresses end of text at column 1 only.
	got, err = idx.Offset(review.Position{Line: 4, Column: 1})
	if err != nil {
		t.Fatalf("Offset at virtual line failed: %v", err)
	}
	if got != len(text) {
		t.Errorf("Offset at virtual line = %d, want %d", got, len(text))
	}

	_, err = idx.Offset(review.Position{Line: 5, Column: 1})
	if !errors.As(err, &suggestErr) || suggestErr.Kind != KindLineOutOfBounds {
		t.Fatalf("expected LineOutOfBounds past EOF, got %v", err)
	}
}

func TestOffsetIndex_LineZeroRejected(t *testing.T) {
	idx := NewOffsetIndex("text\n")

	_, err := idx.Offset(review.Position{Line: 0, Column: 1})
	var suggestErr *Error
	if !errors.As(err, &suggestErr) || suggestErr.Kind != KindLineOutOfBounds {
		t.Fatalf("expected LineOutOfBounds for line 0, got %v", err)
	}
}

func TestOffsetIndex_MultibyteColumns(t *testing.T) {
	// Columns count code points; the offsets are bytes.
	idx := NewOffsetIndex("héllo\n")

	got, err := idx.Offset(review.Position{Line: 1, Column: 3})
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if got != 3 {
		t.Errorf("column 3 = byte offset %d, want 3", got)
	}

	// One past the last code point of the line lands on the line end.
	got, err = idx.Offset(review.Position{Line: 1, Column: 7})
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if got != 7 {
		t.Errorf("column 7 = byte offset %d, want 7", got)
	}

	_, err = idx.Offset(review.Position{Line: 1, Column: 8})
	var suggestErr *Error
	if !errors.As(err, &suggestErr) || suggestErr.Kind != KindColumnOutOfBounds {
		t.Fatalf("expected ColumnOutOfBounds, got %v", err)
	}
}

func TestOffsetIndex_NoTrailingNewline(t *testing.T) {
	idx := NewOffsetIndex("abc")

	got, err := idx.Offset(review.Position{Line: 1, Column: 4})
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if got != 3 {
		t.Errorf("one past last rune = %d, want 3", got)
	}

	// The virtual line still addresses end of text at column 1 only.
	got, err = idx.Offset(review.Position{Line: 2, Column: 1})
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if got != 3 {
		t.Errorf("virtual line column 1 = %d, want 3", got)
	}

	var suggestErr *Error
	_, err = idx.Offset(review.Position{Line: 3, Column: 1})
	if !errors.As(err, &suggestErr) || suggestErr.Kind != KindLineOutOfBounds {
		t.Fatalf("expected LineOutOfBounds, got %v", err)
	}
}
