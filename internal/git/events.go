package git

// ChangeKind mirrors the backend delta vocabulary for a file-level change.
type ChangeKind string

const (
	ChangeUnmodified  ChangeKind = "unmodified"
	ChangeAdded       ChangeKind = "added"
	ChangeDeleted     ChangeKind = "deleted"
	ChangeModified    ChangeKind = "modified"
	ChangeRenamed     ChangeKind = "renamed"
	ChangeCopied      ChangeKind = "copied"
	ChangeIgnored     ChangeKind = "ignored"
	ChangeUntracked   ChangeKind = "untracked"
	ChangeTypeChanged ChangeKind = "type_changed"
	ChangeUnreadable  ChangeKind = "unreadable"
	ChangeConflicted  ChangeKind = "conflicted"
)

// Line origin codes carried by LineEvent. The first three mark ordinary
// diff lines; the rest are structural markers that carry no line-level
// content of their own.
const (
	OriginContext       byte = ' '
	OriginAddition      byte = '+'
	OriginDeletion      byte = '-'
	OriginContextEOFNL  byte = '='
	OriginAdditionEOFNL byte = '>'
	OriginDeletionEOFNL byte = '<'
	OriginFileHeader    byte = 'F'
	OriginHunkHeader    byte = 'H'
	OriginBinary        byte = 'B'
)

// Event is one element of the ordered comparison stream a tree or
// workspace comparison produces. The stream is flat: a FileEvent opens
// a file, followed by the hunk and line events belonging to it.
type Event interface {
	event()
}

// FileEvent starts a new file in the comparison stream.
type FileEvent struct {
	Kind       ChangeKind
	BasePath   string
	HeadPath   string
	BaseBinary bool
	HeadBinary bool
}

// BinaryEvent marks the current file as binary. It may arrive after
// hunk or line events were already emitted for the file.
type BinaryEvent struct{}

// HunkEvent starts a new hunk. Header holds the raw hunk header bytes
// including the trailing section text, e.g. "@@ -1,3 +1,4 @@ func main\n".
type HunkEvent struct {
	BaseStart int
	BaseLines int
	HeadStart int
	HeadLines int
	Header    []byte
}

// LineEvent carries one raw line. BaseLine and HeadLine are 1-based and
// zero when the line does not exist on that side.
type LineEvent struct {
	Origin   byte
	Content  []byte
	BaseLine int
	HeadLine int
}

func (FileEvent) event()   {}
func (BinaryEvent) event() {}
func (HunkEvent) event()   {}
func (LineEvent) event()   {}
