package suggest

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/refracthq/refract/internal/logging"
	"github.com/refracthq/refract/internal/review"
)

// Workspace is the repository collaborator the applier mutates through.
// Paths are repository-relative and slash-separated. ReadFile reports a
// missing file with an error wrapping fs.ErrNotExist.
type Workspace interface {
	ReadFile(path string) (string, error)
	WriteFile(path string, content string) error
	Stage(path string) error
}

// Applier validates suggestions and turns them into previews or
// working-tree mutations.
type Applier struct {
	ws     Workspace
	logger logging.Logger
}

// NewApplier creates an applier bound to the given workspace.
func NewApplier(ws Workspace, logger logging.Logger) (*Applier, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Applier{ws: ws, logger: logger.With("component", "suggest_applier")}, nil
}

// replacement is one edit resolved to a byte span of the original text.
type replacement struct {
	start int
	end   int
	text  string
}

// fileEdit holds a file's original and fully edited content.
type fileEdit struct {
	path     string
	original string
	updated  string
}

// DryRun computes the patches a suggestion would produce without
// mutating anything. Files whose edits reproduce the existing text
// yield no preview.
func (a *Applier) DryRun(suggestion review.Suggestion) ([]review.ApplyPreview, error) {
	edits, err := a.computeEdits(suggestion)
	if err != nil {
		return nil, err
	}

	previews := []review.ApplyPreview{}
	for _, edit := range edits {
		if edit.updated == edit.original {
			continue
		}
		patch, err := renderPatch(edit.path, edit.original, edit.updated)
		if err != nil {
			return nil, err
		}
		previews = append(previews, review.ApplyPreview{Path: edit.path, Patch: patch})
	}

	return previews, nil
}

// Apply writes a suggestion's edits to the working tree and stages the
// changed paths. Every file's edits validate before the first write;
// a failure mid-sequence leaves earlier files applied and is not rolled
// back.
func (a *Applier) Apply(suggestion review.Suggestion) error {
	edits, err := a.computeEdits(suggestion)
	if err != nil {
		return err
	}

	for _, edit := range edits {
		if edit.updated == edit.original {
			continue
		}
		if err := a.ws.WriteFile(edit.path, edit.updated); err != nil {
			return &Error{Kind: KindIO, Path: edit.path, Err: err}
		}
		if err := a.ws.Stage(edit.path); err != nil {
			return &Error{Kind: KindStage, Path: edit.path, Err: err}
		}
		a.logger.Debug("applied suggestion edit", "path", edit.path)
	}

	return nil
}

// computeEdits validates every edit and reconstructs each touched
// file's updated content, in sorted path order.
func (a *Applier) computeEdits(suggestion review.Suggestion) ([]fileEdit, error) {
	// Side and path checks happen for all edits before any file access.
	grouped := map[string][]review.SuggestionEdit{}
	paths := []string{}
	for _, edit := range suggestion.Edits {
		path := edit.Location.Path
		if edit.Location.Side != review.SideHead {
			return nil, &Error{Kind: KindUnsupportedSide, Path: path}
		}
		if err := validatePath(path); err != nil {
			return nil, err
		}
		if _, seen := grouped[path]; !seen {
			paths = append(paths, path)
		}
		grouped[path] = append(grouped[path], edit)
	}
	sort.Strings(paths)

	edits := make([]fileEdit, 0, len(paths))
	for _, path := range paths {
		edit, err := a.buildFileEdit(path, grouped[path])
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}

	return edits, nil
}

func (a *Applier) buildFileEdit(path string, edits []review.SuggestionEdit) (fileEdit, error) {
	original, err := a.ws.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileEdit{}, &Error{Kind: KindMissingFile, Path: path}
		}
		return fileEdit{}, &Error{Kind: KindIO, Path: path, Err: err}
	}

	index := NewOffsetIndex(original)
	replacements := make([]replacement, 0, len(edits))
	for _, edit := range edits {
		start, err := index.Offset(edit.Location.Range.Start)
		if err != nil {
			return fileEdit{}, withPath(err, path)
		}
		end, err := index.Offset(edit.Location.Range.End)
		if err != nil {
			return fileEdit{}, withPath(err, path)
		}
		if start > end {
			return fileEdit{}, &Error{Kind: KindInvalidRange, Path: path, Start: start, End: end}
		}
		replacements = append(replacements, replacement{start: start, end: end, text: edit.Replacement})
	}

	sort.SliceStable(replacements, func(i, j int) bool {
		return replacements[i].start < replacements[j].start
	})

	// Adjacent spans may touch; any overlap rejects the whole file.
	for i := 1; i < len(replacements); i++ {
		if replacements[i-1].end > replacements[i].start {
			return fileEdit{}, &Error{Kind: KindOverlappingEdits, Path: path}
		}
	}

	// Apply highest offset first so earlier spans stay valid while the
	// text shrinks or grows behind them.
	updated := original
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		updated = updated[:r.start] + r.text + updated[r.end:]
	}

	return fileEdit{path: path, original: original, updated: updated}, nil
}

// validatePath enforces the relative-path containment rules before any
// filesystem access.
func validatePath(path string) error {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") || isWindowsAbs(path) {
		return &Error{Kind: KindAbsolutePath, Path: path}
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return &Error{Kind: KindPathTraversal, Path: path}
		}
	}
	return nil
}

func isWindowsAbs(path string) bool {
	return len(path) >= 2 && path[1] == ':' &&
		(('a' <= path[0] && path[0] <= 'z') || ('A' <= path[0] && path[0] <= 'Z'))
}

// withPath fills the path into positional errors produced by the offset
// index, which does not know which file it is indexing.
func withPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
