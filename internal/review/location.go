package review

// Side identifies which side of a diff a location refers to.
type Side string

const (
	// SideBase is the base (often "left") side of the diff.
	SideBase Side = "base"
	// SideHead is the head (often "right") side of the diff.
	SideHead Side = "head"
)

// Position is a 1-based line/column pair. Column counts Unicode code
// points, not bytes; a zero Column is treated as column 1.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

// Range spans from an inclusive start position to an exclusive end position.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FileRange is a range within a single file on a specific diff side.
// Paths are relative to the repository root and use forward slashes.
type FileRange struct {
	Path  string `json:"path"`
	Side  Side   `json:"side"`
	Range Range  `json:"range"`
}
