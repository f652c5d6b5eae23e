package suggest

import (
	"bytes"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const patchContextLines = 3

// renderPatch produces a unified diff for a single file edited in
// place.
func renderPatch(path, original, updated string) (string, error) {
	chunks := []fdiff.Chunk{}
	for _, d := range diff.Do(original, updated) {
		var op fdiff.Operation
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = fdiff.Equal
		case diffmatchpatch.DiffInsert:
			op = fdiff.Add
		case diffmatchpatch.DiffDelete:
			op = fdiff.Delete
		}
		chunks = append(chunks, textChunk{content: d.Text, op: op})
	}

	patch := textPatch{
		filePatches: []fdiff.FilePatch{
			filePatch{
				from:   patchFile{path: path, hash: plumbing.ComputeHash(plumbing.BlobObject, []byte(original))},
				to:     patchFile{path: path, hash: plumbing.ComputeHash(plumbing.BlobObject, []byte(updated))},
				chunks: chunks,
			},
		},
	}

	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, patchContextLines).Encode(patch); err != nil {
		return "", fmt.Errorf("failed to encode patch for %s: %w", path, err)
	}
	return buf.String(), nil
}

type textPatch struct {
	filePatches []fdiff.FilePatch
}

func (p textPatch) FilePatches() []fdiff.FilePatch { return p.filePatches }
func (p textPatch) Message() string                { return "" }

type filePatch struct {
	from   patchFile
	to     patchFile
	chunks []fdiff.Chunk
}

func (f filePatch) IsBinary() bool                 { return false }
func (f filePatch) Files() (fdiff.File, fdiff.File) { return f.from, f.to }
func (f filePatch) Chunks() []fdiff.Chunk          { return f.chunks }

type patchFile struct {
	path string
	hash plumbing.Hash
}

func (f patchFile) Hash() plumbing.Hash     { return f.hash }
func (f patchFile) Mode() filemode.FileMode { return filemode.Regular }
func (f patchFile) Path() string            { return f.path }

type textChunk struct {
	content string
	op      fdiff.Operation
}

func (c textChunk) Content() string       { return c.content }
func (c textChunk) Type() fdiff.Operation { return c.op }
