package git

import (
	"os"
	"testing"
)

func TestGroupHunks_MergesCloseRuns(t *testing.T) {
	// Two change runs separated by a small unchanged gap merge into one
	// hunk; a gap wider than twice the context splits them.
	records := func(origins string) []lineRecord {
		recs := make([]lineRecord, len(origins))
		for i := range origins {
			recs[i] = lineRecord{origin: origins[i], text: "x\n"}
		}
		return recs
	}

	tests := []struct {
		name    string
		origins string
		context int
		want    [][2]int
	}{
		{"single change padded", "   +   ", 2, [][2]int{{1, 5}}},
		{"change at start", "+    ", 1, [][2]int{{0, 1}}},
		{"gap within merge distance", "+  +", 1, [][2]int{{0, 3}}},
		{"gap beyond merge distance", "+   +", 1, [][2]int{{0, 1}, {3, 4}}},
		{"no changes", "     ", 3, nil},
		{"zero context", " + + ", 0, [][2]int{{1, 1}, {3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupHunks(records(tt.origins), tt.context)
			if len(got) != len(tt.want) {
				t.Fatalf("groupHunks(%q, %d) = %v, want %v", tt.origins, tt.context, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hunk %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatHunkHeader(t *testing.T) {
	tests := []struct {
		name    string
		base    [2]int
		head    [2]int
		section string
		want    string
	}{
		{"plain counts", [2]int{1, 3}, [2]int{1, 4}, "", "@@ -1,3 +1,4 @@\n"},
		{"count one omitted", [2]int{5, 1}, [2]int{5, 1}, "", "@@ -5 +5 @@\n"},
		{"zero count kept", [2]int{0, 0}, [2]int{1, 2}, "", "@@ -0,0 +1,2 @@\n"},
		{"with section", [2]int{10, 3}, [2]int{10, 3}, "func main", "@@ -10,3 +10,3 @@ func main\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(formatHunkHeader(tt.base[0], tt.base[1], tt.head[0], tt.head[1], tt.section))
			if got != tt.want {
				t.Errorf("header = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendTextEvents_AdditionOnlyHunkNumbering(t *testing.T) {
	// A pure insertion at the end of the file: the base side of the
	// hunk header names the line before the insertion with count zero.
	base := "line 1\n"
	head := "line 1\nline 2\n"

	events := appendTextEvents(nil, base, head, 0)

	var hunk *HunkEvent
	for _, ev := range events {
		if h, ok := ev.(HunkEvent); ok {
			hunk = &h
			break
		}
	}
	if hunk == nil {
		t.Fatal("no hunk event emitted")
	}
	if hunk.BaseStart != 1 || hunk.BaseLines != 0 {
		t.Errorf("base range = %d,%d, want 1,0", hunk.BaseStart, hunk.BaseLines)
	}
	if hunk.HeadStart != 2 || hunk.HeadLines != 1 {
		t.Errorf("head range = %d,%d, want 2,1", hunk.HeadStart, hunk.HeadLines)
	}
}

func TestAppendTextEvents_EOFNewlineMarkers(t *testing.T) {
	base := "line 1\nline 2"
	head := "line 1\nline two"

	events := appendTextEvents(nil, base, head, 3)

	var sawDeletionMarker, sawAdditionMarker bool
	for _, ev := range events {
		line, ok := ev.(LineEvent)
		if !ok {
			continue
		}
		switch line.Origin {
		case OriginDeletionEOFNL:
			sawDeletionMarker = true
		case OriginAdditionEOFNL:
			sawAdditionMarker = true
		}
	}
	if !sawDeletionMarker || !sawAdditionMarker {
		t.Errorf("eof markers: deletion=%v addition=%v, want both", sawDeletionMarker, sawAdditionMarker)
	}
}

func TestScanFuncName(t *testing.T) {
	baseLines := []string{
		"package main\n",
		"\n",
		"func main() {\n",
		"\tx := 1\n",
		"\ty := 2\n",
	}

	tests := []struct {
		name        string
		beforeCount int
		want        string
	}{
		{"inside function body", 5, "func main() {"},
		{"right after declaration", 3, "func main() {"},
		{"before declaration", 2, "package main"},
		{"at file start", 0, ""},
		{"count past end clamps", 99, "func main() {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanFuncName(baseLines, tt.beforeCount); got != tt.want {
				t.Errorf("scanFuncName(_, %d) = %q, want %q", tt.beforeCount, got, tt.want)
			}
		})
	}
}

func TestSimilarityScore(t *testing.T) {
	if got := similarityScore("same", "same"); got != 100 {
		t.Errorf("identical texts score %d, want 100", got)
	}
	if got := similarityScore("", ""); got != 100 {
		t.Errorf("empty texts score %d, want 100", got)
	}
	if got := similarityScore("aaaa", "bbbb"); got > 10 {
		t.Errorf("disjoint texts score %d, want near 0", got)
	}

	nearly := similarityScore("one two three four\n", "one two three five\n")
	if nearly < 50 || nearly >= 100 {
		t.Errorf("near-identical texts score %d, want high but below 100", nearly)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single line", "one\n", []string{"one\n"}},
		{"no trailing newline", "one\ntwo", []string{"one\n", "two"}},
		{"blank lines kept", "\n\n", []string{"\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompareWorkspace_DeletedFile(t *testing.T) {
	dir, gitRepo := initTestRepo(t)
	commitFiles(t, dir, gitRepo, "initial", map[string]string{
		"keep.txt": "stays\n",
		"gone.txt": "removed\n",
	})

	repo := openTestRepo(t, dir)
	removeWorkspaceFile(t, repo, "gone.txt")

	events, err := repo.CompareWorkspace(CompareOptions{ContextLines: 3})
	if err != nil {
		t.Fatalf("CompareWorkspace failed: %v", err)
	}

	var file *FileEvent
	for _, ev := range events {
		if fe, ok := ev.(FileEvent); ok {
			file = &fe
			break
		}
	}
	if file == nil {
		t.Fatal("no file event emitted")
	}
	if file.Kind != ChangeDeleted {
		t.Errorf("kind = %v, want deleted", file.Kind)
	}
	if file.BasePath != "gone.txt" || file.HeadPath != "" {
		t.Errorf("paths = %q -> %q, want gone.txt -> empty", file.BasePath, file.HeadPath)
	}
}

func removeWorkspaceFile(t *testing.T, repo *Repository, path string) {
	t.Helper()
	if err := os.Remove(repo.Absolute(path)); err != nil {
		t.Fatalf("failed to remove %s: %v", path, err)
	}
}
