package diff

import (
	"testing"

	gitpkg "github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
)

func TestBuildFiles_SingleModification(t *testing.T) {
	events := []gitpkg.Event{
		gitpkg.FileEvent{Kind: gitpkg.ChangeModified, BasePath: "main.go", HeadPath: "main.go"},
		gitpkg.HunkEvent{BaseStart: 1, BaseLines: 3, HeadStart: 1, HeadLines: 3, Header: []byte("@@ -1,3 +1,3 @@ func main\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginContext, Content: []byte("line 1\n"), BaseLine: 1, HeadLine: 1},
		gitpkg.LineEvent{Origin: gitpkg.OriginDeletion, Content: []byte("line 2\n"), BaseLine: 2},
		gitpkg.LineEvent{Origin: gitpkg.OriginAddition, Content: []byte("line two\n"), HeadLine: 2},
		gitpkg.LineEvent{Origin: gitpkg.OriginContext, Content: []byte("line 3\n"), BaseLine: 3, HeadLine: 3},
	}

	files := buildFiles(events)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	file := files[0]
	if file.Status != review.StatusModified {
		t.Errorf("status = %v, want modified", file.Status)
	}
	if file.Additions != 1 || file.Deletions != 1 {
		t.Errorf("counts = +%d -%d, want +1 -1", file.Additions, file.Deletions)
	}
	if len(file.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(file.Hunks))
	}

	hunk := file.Hunks[0]
	if hunk.Section != "func main" {
		t.Errorf("section = %q, want %q", hunk.Section, "func main")
	}
	if hunk.Range.BaseStart != 1 || hunk.Range.BaseLines != 3 || hunk.Range.HeadStart != 1 || hunk.Range.HeadLines != 3 {
		t.Errorf("range = %+v, want 1,3,1,3", hunk.Range)
	}
	if len(hunk.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(hunk.Lines))
	}

	wantLines := []review.DiffLine{
		{Kind: review.LineContext, Text: "line 1", BaseLine: 1, HeadLine: 1},
		{Kind: review.LineDeletion, Text: "line 2", BaseLine: 2},
		{Kind: review.LineAddition, Text: "line two", HeadLine: 2},
		{Kind: review.LineContext, Text: "line 3", BaseLine: 3, HeadLine: 3},
	}
	for i, want := range wantLines {
		got := hunk.Lines[i]
		if got.Kind != want.Kind || got.Text != want.Text || got.BaseLine != want.BaseLine || got.HeadLine != want.HeadLine {
			t.Errorf("line %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestBuildFiles_BinaryClearsAccumulatedHunks(t *testing.T) {
	// The binary marker may arrive after line detail was already
	// streamed; everything accumulated so far must go.
	events := []gitpkg.Event{
		gitpkg.FileEvent{Kind: gitpkg.ChangeModified, BasePath: "blob.bin", HeadPath: "blob.bin"},
		gitpkg.HunkEvent{BaseStart: 1, BaseLines: 1, HeadStart: 1, HeadLines: 1, Header: []byte("@@ -1 +1 @@\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginAddition, Content: []byte("junk\n"), HeadLine: 1},
		gitpkg.BinaryEvent{},
		gitpkg.HunkEvent{BaseStart: 2, BaseLines: 1, HeadStart: 2, HeadLines: 1, Header: []byte("@@ -2 +2 @@\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginDeletion, Content: []byte("more junk\n"), BaseLine: 2},
	}

	files := buildFiles(events)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	file := files[0]
	if !file.Binary {
		t.Error("file should be binary")
	}
	if len(file.Hunks) != 0 {
		t.Errorf("binary file has %d hunks, want 0", len(file.Hunks))
	}
	if file.Additions != 0 || file.Deletions != 0 {
		t.Errorf("binary file counts = +%d -%d, want zero", file.Additions, file.Deletions)
	}
}

func TestBuildFiles_StructuralOriginsDiscarded(t *testing.T) {
	events := []gitpkg.Event{
		gitpkg.FileEvent{Kind: gitpkg.ChangeModified, BasePath: "a.txt", HeadPath: "a.txt"},
		gitpkg.HunkEvent{BaseStart: 1, BaseLines: 1, HeadStart: 1, HeadLines: 1, Header: []byte("@@ -1 +1 @@\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginDeletion, Content: []byte("old"), BaseLine: 1},
		gitpkg.LineEvent{Origin: gitpkg.OriginDeletionEOFNL, Content: []byte("\\ No newline at end of file\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginAddition, Content: []byte("new"), HeadLine: 1},
		gitpkg.LineEvent{Origin: gitpkg.OriginAdditionEOFNL, Content: []byte("\\ No newline at end of file\n")},
	}

	files := buildFiles(events)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	lines := files[0].Hunks[0].Lines
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "old" || lines[1].Text != "new" {
		t.Errorf("lines = %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestBuildFiles_OrphanEventsDiscarded(t *testing.T) {
	// Hunk and line events with no open file, and line events with no
	// open hunk, are dropped.
	events := []gitpkg.Event{
		gitpkg.HunkEvent{BaseStart: 1, BaseLines: 1, HeadStart: 1, HeadLines: 1, Header: []byte("@@ -1 +1 @@\n")},
		gitpkg.LineEvent{Origin: gitpkg.OriginAddition, Content: []byte("stray\n"), HeadLine: 1},
		gitpkg.FileEvent{Kind: gitpkg.ChangeModified, BasePath: "a.txt", HeadPath: "a.txt"},
		gitpkg.LineEvent{Origin: gitpkg.OriginAddition, Content: []byte("no hunk yet\n"), HeadLine: 1},
	}

	files := buildFiles(events)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if len(files[0].Hunks) != 0 {
		t.Errorf("expected no hunks, got %d", len(files[0].Hunks))
	}
}

func TestBuildFiles_RenameCarriesOldPath(t *testing.T) {
	events := []gitpkg.Event{
		gitpkg.FileEvent{Kind: gitpkg.ChangeRenamed, BasePath: "old.go", HeadPath: "new.go"},
	}

	files := buildFiles(events)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	file := files[0]
	if file.Status != review.StatusRenamed {
		t.Errorf("status = %v, want renamed", file.Status)
	}
	if file.Path != "new.go" || file.OldPath != "old.go" {
		t.Errorf("paths = %q <- %q, want new.go <- old.go", file.Path, file.OldPath)
	}
	if len(file.Hunks) != 0 {
		t.Errorf("pure rename has %d hunks, want 0", len(file.Hunks))
	}
}

func TestBuildFiles_DeletedFileUsesBasePath(t *testing.T) {
	events := []gitpkg.Event{
		gitpkg.FileEvent{Kind: gitpkg.ChangeDeleted, BasePath: "gone.go"},
	}

	files := buildFiles(events)
	if len(files) != 1 || files[0].Path != "gone.go" {
		t.Fatalf("deleted file path = %v", files)
	}
	if files[0].Status != review.StatusDeleted {
		t.Errorf("status = %v, want deleted", files[0].Status)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		kind gitpkg.ChangeKind
		want review.FileStatus
	}{
		{gitpkg.ChangeAdded, review.StatusAdded},
		{gitpkg.ChangeUntracked, review.StatusAdded},
		{gitpkg.ChangeDeleted, review.StatusDeleted},
		{gitpkg.ChangeRenamed, review.StatusRenamed},
		{gitpkg.ChangeCopied, review.StatusCopied},
		{gitpkg.ChangeTypeChanged, review.StatusTypeChange},
		{gitpkg.ChangeModified, review.StatusModified},
		{gitpkg.ChangeConflicted, review.StatusModified},
		{gitpkg.ChangeUnreadable, review.StatusModified},
	}

	for _, tt := range tests {
		if got := ClassifyStatus(tt.kind); got != tt.want {
			t.Errorf("ClassifyStatus(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
