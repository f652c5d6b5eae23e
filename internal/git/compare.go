package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/refracthq/refract/internal/review"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// CompareOptions configures a tree or workspace comparison.
type CompareOptions struct {
	// ContextLines is the number of unchanged lines surrounding each
	// hunk. Hunks separated by at most twice this many unchanged lines
	// merge into one.
	ContextLines int
	// DetectRenames pairs deleted and added files by content similarity.
	DetectRenames bool
	// RenameScore is the similarity percentage required to pair a
	// rename (1-100).
	RenameScore int
	// DetectCopies pairs added files against base entries left
	// unmodified on the head side.
	DetectCopies bool
	// CopyScore is the similarity percentage required to report a copy.
	// 100 admits identical content only.
	CopyScore int
}

// fileChange is the resolved comparison input for a single file, before
// it is flattened into the event stream.
type fileChange struct {
	kind        ChangeKind
	basePath    string
	headPath    string
	baseContent string
	headContent string
	baseBinary  bool
	headBinary  bool
	unreadable  bool
}

// CompareRange compares the trees of the given revision range and
// returns the ordered event stream describing their differences. A nil
// base compares the head tree against an empty tree.
func (r *Repository) CompareRange(rng review.RevisionRange, opts CompareOptions) ([]Event, error) {
	headTree, err := r.treeOf(rng.Head.OID)
	if err != nil {
		return nil, err
	}

	var baseTree *object.Tree
	if rng.Base != nil {
		baseTree, err = r.treeOf(rng.Base.OID)
		if err != nil {
			return nil, err
		}
	}

	treeOpts := &object.DiffTreeOptions{}
	if opts.DetectRenames {
		treeOpts.DetectRenames = true
		treeOpts.RenameScore = uint(opts.RenameScore)
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), baseTree, headTree, treeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to compare trees: %w", err)
	}

	fileChanges := make([]fileChange, 0, len(changes))
	for _, change := range changes {
		fc, skip, err := r.resolveTreeChange(change)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		fileChanges = append(fileChanges, fc)
	}

	if opts.DetectCopies {
		if err := r.detectCopies(fileChanges, baseTree, headTree, opts.CopyScore); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("compared revision range", "files", len(fileChanges))
	return buildEvents(fileChanges, opts.ContextLines), nil
}

// CompareWorkspace compares the head commit tree against the combined
// index and working tree state.
func (r *Repository) CompareWorkspace(opts CompareOptions) ([]Event, error) {
	rng, err := r.RevisionRange()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("cannot compare workspace: %w", plumbing.ErrReferenceNotFound)
	}

	headTree, err := r.treeOf(rng.Head.OID)
	if err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to access worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to compute worktree status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path, entry := range status {
		if entry.Staging == gogit.Unmodified && entry.Worktree == gogit.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fileChanges := make([]fileChange, 0, len(paths))
	for _, path := range paths {
		fc, err := r.resolveWorkspaceChange(path, status[path], headTree)
		if err != nil {
			return nil, err
		}
		fileChanges = append(fileChanges, fc)
	}

	r.logger.Debug("compared workspace", "files", len(fileChanges))
	return buildEvents(fileChanges, opts.ContextLines), nil
}

func (r *Repository) treeOf(oid string) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(oid))
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", oid, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", oid, err)
	}
	return tree, nil
}

// resolveTreeChange maps one tree-diff change to a fileChange,
// classifying it and loading both sides' content. Submodule entries
// are skipped.
func (r *Repository) resolveTreeChange(change *object.Change) (fileChange, bool, error) {
	if change.From.TreeEntry.Mode == filemode.Submodule || change.To.TreeEntry.Mode == filemode.Submodule {
		return fileChange{}, true, nil
	}

	from, to, err := change.Files()
	if err != nil {
		return fileChange{}, false, fmt.Errorf("failed to resolve change files: %w", err)
	}

	fc := fileChange{
		basePath: change.From.Name,
		headPath: change.To.Name,
	}

	switch {
	case from == nil && to == nil:
		return fileChange{}, true, nil
	case from == nil:
		fc.kind = ChangeAdded
	case to == nil:
		fc.kind = ChangeDeleted
	case change.From.Name != change.To.Name:
		fc.kind = ChangeRenamed
	case isTypeChange(change.From.TreeEntry.Mode, change.To.TreeEntry.Mode):
		fc.kind = ChangeTypeChanged
	default:
		fc.kind = ChangeModified
	}

	if from != nil {
		fc.baseBinary, err = from.IsBinary()
		if err != nil {
			return fileChange{}, false, fmt.Errorf("failed to sniff %s: %w", change.From.Name, err)
		}
		if !fc.baseBinary {
			fc.baseContent, err = from.Contents()
			if err != nil {
				return fileChange{}, false, fmt.Errorf("failed to read blob %s: %w", change.From.Name, err)
			}
		}
	}
	if to != nil {
		fc.headBinary, err = to.IsBinary()
		if err != nil {
			return fileChange{}, false, fmt.Errorf("failed to sniff %s: %w", change.To.Name, err)
		}
		if !fc.headBinary {
			fc.headContent, err = to.Contents()
			if err != nil {
				return fileChange{}, false, fmt.Errorf("failed to read blob %s: %w", change.To.Name, err)
			}
		}
	}

	return fc, false, nil
}

// isTypeChange reports whether the entry switched between a regular
// file and a symlink.
func isTypeChange(from, to filemode.FileMode) bool {
	return (from == filemode.Symlink) != (to == filemode.Symlink)
}

// detectCopies reclassifies added files whose content matches a base
// entry left unmodified on the head side. A copyScore of 100 admits
// exact blob matches only; lower scores additionally admit
// similarity-scored matches.
func (r *Repository) detectCopies(changes []fileChange, baseTree, headTree *object.Tree, copyScore int) error {
	if baseTree == nil {
		return nil
	}

	hasAdded := false
	for i := range changes {
		if changes[i].kind == ChangeAdded {
			hasAdded = true
			break
		}
	}
	if !hasAdded {
		return nil
	}

	// Candidate sources: base entries whose path and blob survive
	// unchanged in head.
	type candidate struct {
		path string
		hash plumbing.Hash
	}
	var candidates []candidate

	iter := baseTree.Files()
	err := iter.ForEach(func(f *object.File) error {
		entry, err := headTree.FindEntry(f.Name)
		if err != nil {
			if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
				return nil
			}
			return err
		}
		if entry.Hash == f.Hash {
			candidates = append(candidates, candidate{path: f.Name, hash: f.Hash})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enumerate copy candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil
	}

	for i := range changes {
		fc := &changes[i]
		if fc.kind != ChangeAdded || fc.headBinary {
			continue
		}

		headEntry, err := headTree.FindEntry(fc.headPath)
		if err != nil {
			continue
		}

		bestPath := ""
		bestContent := ""
		bestScore := 0
		for _, cand := range candidates {
			if cand.hash == headEntry.Hash {
				bestPath = cand.path
				bestContent = fc.headContent
				bestScore = 100
				break
			}
			if copyScore >= 100 {
				continue
			}
			srcFile, err := baseTree.File(cand.path)
			if err != nil {
				continue
			}
			srcContent, err := srcFile.Contents()
			if err != nil {
				continue
			}
			score := similarityScore(srcContent, fc.headContent)
			if score >= copyScore && score > bestScore {
				bestPath = cand.path
				bestContent = srcContent
				bestScore = score
			}
		}

		if bestPath != "" {
			fc.kind = ChangeCopied
			fc.basePath = bestPath
			fc.baseContent = bestContent
		}
	}

	return nil
}

// similarityScore rates two texts 0-100 using the Levenshtein distance
// over their diff.
func similarityScore(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 100
	}
	dmp := diffmatchpatch.New()
	distance := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
	return 100 - (distance*100)/longest
}

// resolveWorkspaceChange maps one worktree status entry to a
// fileChange. The base side is the head commit tree; the head side is
// the file on disk.
func (r *Repository) resolveWorkspaceChange(path string, entry *gogit.FileStatus, headTree *object.Tree) (fileChange, error) {
	fc := fileChange{basePath: path, headPath: path}

	switch {
	case entry.Staging == gogit.UpdatedButUnmerged || entry.Worktree == gogit.UpdatedButUnmerged:
		fc.kind = ChangeConflicted
	case entry.Worktree == gogit.Untracked || entry.Staging == gogit.Untracked:
		fc.kind = ChangeUntracked
		fc.basePath = ""
	case entry.Staging == gogit.Added:
		fc.kind = ChangeAdded
		fc.basePath = ""
	case entry.Staging == gogit.Renamed:
		fc.kind = ChangeRenamed
		if entry.Extra != "" {
			fc.basePath = entry.Extra
		}
	case entry.Staging == gogit.Deleted || entry.Worktree == gogit.Deleted:
		fc.kind = ChangeDeleted
		fc.headPath = ""
	default:
		fc.kind = ChangeModified
	}

	if fc.basePath != "" {
		baseFile, err := headTree.File(fc.basePath)
		if err == nil {
			fc.baseBinary, err = baseFile.IsBinary()
			if err != nil {
				return fileChange{}, fmt.Errorf("failed to sniff %s: %w", fc.basePath, err)
			}
			if !fc.baseBinary {
				fc.baseContent, err = baseFile.Contents()
				if err != nil {
					return fileChange{}, fmt.Errorf("failed to read blob %s: %w", fc.basePath, err)
				}
			}
		} else if !errors.Is(err, object.ErrFileNotFound) {
			return fileChange{}, fmt.Errorf("failed to look up %s in head tree: %w", fc.basePath, err)
		} else {
			fc.basePath = ""
		}
	}

	if fc.headPath != "" && fc.kind != ChangeDeleted {
		data, err := os.ReadFile(r.Absolute(fc.headPath))
		switch {
		case errors.Is(err, os.ErrPermission):
			fc.kind = ChangeUnreadable
			fc.unreadable = true
		case errors.Is(err, os.ErrNotExist):
			fc.kind = ChangeDeleted
			fc.headPath = ""
		case err != nil:
			return fileChange{}, fmt.Errorf("failed to read %s: %w", fc.headPath, err)
		default:
			isBin, err := binary.IsBinary(bytes.NewReader(data))
			if err != nil {
				return fileChange{}, fmt.Errorf("failed to sniff %s: %w", fc.headPath, err)
			}
			fc.headBinary = isBin
			if !isBin {
				fc.headContent = string(data)
			}
		}
	}

	return fc, nil
}

// buildEvents flattens resolved file changes into the ordered event
// stream consumed by the diff builder.
func buildEvents(changes []fileChange, contextLines int) []Event {
	if contextLines < 0 {
		contextLines = 0
	}

	var events []Event
	for _, fc := range changes {
		events = append(events, FileEvent{
			Kind:       fc.kind,
			BasePath:   fc.basePath,
			HeadPath:   fc.headPath,
			BaseBinary: fc.baseBinary,
			HeadBinary: fc.headBinary,
		})

		if fc.baseBinary || fc.headBinary {
			events = append(events, BinaryEvent{})
			continue
		}
		if fc.unreadable {
			continue
		}

		events = appendTextEvents(events, fc.baseContent, fc.headContent, contextLines)
	}
	return events
}

// lineRecord is one line of the full base/head alignment, before hunk
// grouping.
type lineRecord struct {
	origin   byte
	text     string
	baseLine int
	headLine int
}

// appendTextEvents diffs two texts line by line and appends the hunk
// and line events describing their differences.
func appendTextEvents(events []Event, base, head string, contextLines int) []Event {
	records := alignLines(base, head)
	hunks := groupHunks(records, contextLines)
	if len(hunks) == 0 {
		return events
	}

	baseLines := splitLines(base)

	// Prefix counts of base/head-side records, used to place hunk
	// headers for hunks empty on one side.
	basePrefix := make([]int, len(records)+1)
	headPrefix := make([]int, len(records)+1)
	for i, rec := range records {
		basePrefix[i+1] = basePrefix[i]
		headPrefix[i+1] = headPrefix[i]
		if rec.origin != OriginAddition {
			basePrefix[i+1]++
		}
		if rec.origin != OriginDeletion {
			headPrefix[i+1]++
		}
	}

	for _, span := range hunks {
		start, end := span[0], span[1]

		baseCount := basePrefix[end+1] - basePrefix[start]
		headCount := headPrefix[end+1] - headPrefix[start]
		baseStart := basePrefix[start]
		if baseCount > 0 {
			baseStart++
		}
		headStart := headPrefix[start]
		if headCount > 0 {
			headStart++
		}

		section := scanFuncName(baseLines, basePrefix[start])
		events = append(events, HunkEvent{
			BaseStart: baseStart,
			BaseLines: baseCount,
			HeadStart: headStart,
			HeadLines: headCount,
			Header:    formatHunkHeader(baseStart, baseCount, headStart, headCount, section),
		})

		for i := start; i <= end; i++ {
			rec := records[i]
			events = append(events, LineEvent{
				Origin:   rec.origin,
				Content:  []byte(rec.text),
				BaseLine: rec.baseLine,
				HeadLine: rec.headLine,
			})
			if !endsWithNewline(rec.text) {
				events = append(events, LineEvent{
					Origin:  eofNewlineOrigin(rec.origin),
					Content: []byte("\\ No newline at end of file\n"),
				})
			}
		}
	}

	return events
}

// alignLines produces the full interleaved line sequence of a
// line-level diff, numbering both sides as it goes.
func alignLines(base, head string) []lineRecord {
	diffs := diff.Do(base, head)

	var records []lineRecord
	baseLine, headLine := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				records = append(records, lineRecord{OriginContext, text, baseLine, headLine})
				baseLine++
				headLine++
			case diffmatchpatch.DiffDelete:
				records = append(records, lineRecord{OriginDeletion, text, baseLine, 0})
				baseLine++
			case diffmatchpatch.DiffInsert:
				records = append(records, lineRecord{OriginAddition, text, 0, headLine})
				headLine++
			}
		}
	}
	return records
}

// groupHunks returns the inclusive record index spans of each hunk:
// every run of changed records padded with context lines, merged when
// separated by at most twice the context size.
func groupHunks(records []lineRecord, contextLines int) [][2]int {
	var hunks [][2]int

	i := 0
	for i < len(records) {
		if records[i].origin == OriginContext {
			i++
			continue
		}

		start := i - contextLines
		if start < 0 {
			start = 0
		}

		// Extend over subsequent change runs while the unchanged gap
		// between them is small enough to merge.
		last := i
		j := i + 1
		for j < len(records) {
			if records[j].origin != OriginContext {
				last = j
				j++
				continue
			}
			run := 0
			k := j
			for k < len(records) && records[k].origin == OriginContext {
				run++
				k++
			}
			if k < len(records) && run <= 2*contextLines {
				j = k
				continue
			}
			break
		}

		end := last + contextLines
		if end > len(records)-1 {
			end = len(records) - 1
		}

		hunks = append(hunks, [2]int{start, end})
		i = end + 1
	}

	return hunks
}

// formatHunkHeader renders the raw "@@ -a,b +c,d @@ section" header
// bytes. Counts of one are omitted, following the unified format.
func formatHunkHeader(baseStart, baseCount, headStart, headCount int, section string) []byte {
	var buf bytes.Buffer
	buf.WriteString("@@ -")
	writeRange(&buf, baseStart, baseCount)
	buf.WriteString(" +")
	writeRange(&buf, headStart, headCount)
	buf.WriteString(" @@")
	if section != "" {
		buf.WriteByte(' ')
		buf.WriteString(section)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeRange(buf *bytes.Buffer, start, count int) {
	if count == 1 {
		fmt.Fprintf(buf, "%d", start)
		return
	}
	fmt.Fprintf(buf, "%d,%d", start, count)
}

// splitLines splits text into lines, keeping each line's terminating
// newline. A final fragment without a newline is kept as-is.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func endsWithNewline(text string) bool {
	return len(text) > 0 && text[len(text)-1] == '\n'
}

func eofNewlineOrigin(origin byte) byte {
	switch origin {
	case OriginAddition:
		return OriginAdditionEOFNL
	case OriginDeletion:
		return OriginDeletionEOFNL
	default:
		return OriginContextEOFNL
	}
}
