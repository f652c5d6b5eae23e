package diff

import (
	gitpkg "github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
)

// buildFiles folds the ordered comparison event stream into file diffs.
// The accumulator is plain owned state: the file currently being
// assembled is the last element of the slice.
func buildFiles(events []gitpkg.Event) []review.DiffFile {
	files := []review.DiffFile{}

	for _, event := range events {
		switch ev := event.(type) {
		case gitpkg.FileEvent:
			files = append(files, startFile(ev))

		case gitpkg.BinaryEvent:
			if len(files) == 0 {
				continue
			}
			// Binary files carry no line-level detail; drop anything
			// accumulated before the flag arrived.
			file := &files[len(files)-1]
			file.Binary = true
			file.Hunks = []review.DiffHunk{}
			file.Additions = 0
			file.Deletions = 0

		case gitpkg.HunkEvent:
			if len(files) == 0 {
				continue
			}
			file := &files[len(files)-1]
			if file.Binary {
				continue
			}
			file.Hunks = append(file.Hunks, review.DiffHunk{
				Range: review.DiffRange{
					BaseStart: ev.BaseStart,
					BaseLines: ev.BaseLines,
					HeadStart: ev.HeadStart,
					HeadLines: ev.HeadLines,
				},
				Section: ExtractSection(ev.Header),
				Lines:   []review.DiffLine{},
			})

		case gitpkg.LineEvent:
			if len(files) == 0 {
				continue
			}
			file := &files[len(files)-1]
			if file.Binary || len(file.Hunks) == 0 {
				continue
			}

			var kind review.DiffLineKind
			switch ev.Origin {
			case gitpkg.OriginContext:
				kind = review.LineContext
			case gitpkg.OriginAddition:
				kind = review.LineAddition
				file.Additions++
			case gitpkg.OriginDeletion:
				kind = review.LineDeletion
				file.Deletions++
			default:
				// Structural origins (eof-newline markers, file and
				// hunk headers, binary notices) produce no line.
				continue
			}

			hunk := &file.Hunks[len(file.Hunks)-1]
			hunk.Lines = append(hunk.Lines, review.DiffLine{
				Kind:     kind,
				Text:     SanitizeLine(ev.Content),
				BaseLine: ev.BaseLine,
				HeadLine: ev.HeadLine,
			})
		}
	}

	return files
}

// startFile opens a new file diff from a file-started event, picking
// the canonical path and recording the old path for renames and copies.
func startFile(ev gitpkg.FileEvent) review.DiffFile {
	status := ClassifyStatus(ev.Kind)

	path := ev.HeadPath
	if status == review.StatusDeleted || ev.HeadPath == "" {
		path = ev.BasePath
	}

	oldPath := ""
	if (status == review.StatusRenamed || status == review.StatusCopied) && ev.BasePath != path {
		oldPath = ev.BasePath
	}

	return review.DiffFile{
		Path:    path,
		OldPath: oldPath,
		Status:  status,
		Binary:  ev.BaseBinary || ev.HeadBinary,
		Hunks:   []review.DiffHunk{},
	}
}
