package diff

import (
	gitpkg "github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
)

// ClassifyStatus maps a backend change kind to a file status. Kinds
// without a dedicated status (ignored, unreadable, conflicted,
// unmodified) collapse to modified.
func ClassifyStatus(kind gitpkg.ChangeKind) review.FileStatus {
	switch kind {
	case gitpkg.ChangeAdded, gitpkg.ChangeUntracked:
		return review.StatusAdded
	case gitpkg.ChangeDeleted:
		return review.StatusDeleted
	case gitpkg.ChangeRenamed:
		return review.StatusRenamed
	case gitpkg.ChangeCopied:
		return review.StatusCopied
	case gitpkg.ChangeTypeChanged:
		return review.StatusTypeChange
	default:
		return review.StatusModified
	}
}
