package review

// FileStatus describes how a file changed between the two sides of a diff.
type FileStatus string

const (
	// StatusAdded marks a file that only exists on the head side.
	StatusAdded FileStatus = "added"
	// StatusDeleted marks a file that only exists on the base side.
	StatusDeleted FileStatus = "deleted"
	// StatusModified marks a file present on both sides with changes.
	StatusModified FileStatus = "modified"
	// StatusRenamed marks a file whose path changed between base and head.
	StatusRenamed FileStatus = "renamed"
	// StatusCopied marks a file whose content was copied from another path.
	StatusCopied FileStatus = "copied"
	// StatusTypeChange marks a file whose type changed (e.g. file to symlink).
	StatusTypeChange FileStatus = "type_change"
)

// DiffLineKind is the role a line plays within a hunk.
type DiffLineKind string

const (
	// LineContext is an unchanged line present on both sides.
	LineContext DiffLineKind = "context"
	// LineAddition is a line that only exists on the head side.
	LineAddition DiffLineKind = "addition"
	// LineDeletion is a line that only exists on the base side.
	LineDeletion DiffLineKind = "deletion"
)

// LineHighlight marks an intraline span in code-point columns.
// The diff engine leaves highlights empty; consumers that compute
// intraline differences populate them.
type LineHighlight struct {
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// DiffLine is a single line within a hunk. BaseLine and HeadLine are
// 1-based and zero when the line does not exist on that side: context
// lines carry both, additions only HeadLine, deletions only BaseLine.
type DiffLine struct {
	Kind       DiffLineKind    `json:"kind"`
	Text       string          `json:"text"`
	BaseLine   int             `json:"base_line,omitempty"`
	HeadLine   int             `json:"head_line,omitempty"`
	Highlights []LineHighlight `json:"highlights,omitempty"`
}

// DiffRange holds the 1-based start/length pairs from a hunk header,
// copied verbatim from the backend.
type DiffRange struct {
	BaseStart int `json:"base_start"`
	BaseLines int `json:"base_lines"`
	HeadStart int `json:"head_start"`
	HeadLines int `json:"head_lines"`
}

// DiffHunk is a contiguous block of context and changed lines.
type DiffHunk struct {
	Range   DiffRange  `json:"range"`
	Section string     `json:"section,omitempty"`
	Lines   []DiffLine `json:"lines"`
}

// DiffFile is the diff for a single file. OldPath is set only for
// renames and copies, and only when it differs from Path. Binary files
// carry no hunks and zero line counts.
type DiffFile struct {
	Path      string     `json:"path"`
	OldPath   string     `json:"old_path,omitempty"`
	Status    FileStatus `json:"status"`
	Binary    bool       `json:"binary"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Hunks     []DiffHunk `json:"hunks"`
}

// Diff is a full diff for a revision range. Files preserve the order
// the backend reported them in.
type Diff struct {
	Range RevisionRange `json:"range"`
	Files []DiffFile    `json:"files"`
}
