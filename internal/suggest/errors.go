package suggest

import "fmt"

// ErrorKind identifies the validation or I/O failure a suggestion hit.
type ErrorKind int

const (
	// KindAbsolutePath means an edit path was not repository-relative.
	KindAbsolutePath ErrorKind = iota
	// KindPathTraversal means an edit path contained a ".." segment.
	KindPathTraversal
	// KindUnsupportedSide means an edit targeted the base side.
	KindUnsupportedSide
	// KindMissingFile means the targeted file has no current content.
	KindMissingFile
	// KindLineOutOfBounds means a position's line does not exist.
	KindLineOutOfBounds
	// KindColumnOutOfBounds means a position's column does not exist on
	// its line.
	KindColumnOutOfBounds
	// KindInvalidRange means a range's start offset exceeds its end.
	KindInvalidRange
	// KindOverlappingEdits means two edits in one file overlap.
	KindOverlappingEdits
	// KindIO means reading or writing file content failed.
	KindIO
	// KindStage means recording a written path in the index failed.
	KindStage
)

// Error describes why a suggestion could not be previewed or applied.
// Line, Column, Start and End carry positional context where the kind
// has one; Err holds the underlying cause for I/O and staging kinds.
type Error struct {
	Kind   ErrorKind
	Path   string
	Line   int
	Column int
	Start  int
	End    int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAbsolutePath:
		return fmt.Sprintf("suggestion path must be relative: %s", e.Path)
	case KindPathTraversal:
		return fmt.Sprintf("suggestion path must not contain parent segments: %s", e.Path)
	case KindUnsupportedSide:
		return fmt.Sprintf("suggestion edits for %s must target the head side", e.Path)
	case KindMissingFile:
		return fmt.Sprintf("suggestion references missing file: %s", e.Path)
	case KindLineOutOfBounds:
		return fmt.Sprintf("line %d is out of bounds for %s", e.Line, e.Path)
	case KindColumnOutOfBounds:
		return fmt.Sprintf("column %d on line %d is out of bounds for %s", e.Column, e.Line, e.Path)
	case KindInvalidRange:
		return fmt.Sprintf("suggestion range is invalid in %s (start %d > end %d)", e.Path, e.Start, e.End)
	case KindOverlappingEdits:
		return fmt.Sprintf("suggestion edits overlap in %s", e.Path)
	case KindIO:
		return fmt.Sprintf("file operation failed for %s: %v", e.Path, e.Err)
	case KindStage:
		return fmt.Sprintf("failed to stage %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("suggestion failed for %s", e.Path)
	}
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}
