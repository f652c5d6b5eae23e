package diff

import (
	"errors"
	"fmt"

	"github.com/refracthq/refract/internal/config"
	gitpkg "github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/logging"
	"github.com/refracthq/refract/internal/review"
)

// ErrNoHeadRevision is returned when the repository has no resolvable
// head commit.
var ErrNoHeadRevision = errors.New("repository has no head revision")

// Backend is the version-control collaborator driving a diff: it
// resolves the revision range and emits the ordered comparison event
// stream.
type Backend interface {
	RevisionRange() (*review.RevisionRange, error)
	CompareRange(rng review.RevisionRange, opts gitpkg.CompareOptions) ([]gitpkg.Event, error)
	CompareWorkspace(opts gitpkg.CompareOptions) ([]gitpkg.Event, error)
}

// Engine folds backend comparison streams into structured diffs.
type Engine struct {
	opts   gitpkg.CompareOptions
	logger logging.Logger
}

// NewEngine creates a diff engine configured from the diff section of
// the configuration.
func NewEngine(cfg *config.Config, logger logging.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Engine{
		opts: gitpkg.CompareOptions{
			ContextLines:  cfg.Diff.ContextLines,
			DetectRenames: cfg.Diff.DetectRenames,
			RenameScore:   cfg.Diff.RenameThreshold,
			DetectCopies:  cfg.Diff.DetectCopies,
			CopyScore:     cfg.Diff.CopyThreshold,
		},
		logger: logger.With("component", "diff_engine"),
	}, nil
}

// Diff compares head against its first parent (or against an empty
// tree for root commits).
func (e *Engine) Diff(backend Backend) (*review.Diff, error) {
	rng, err := backend.RevisionRange()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision range: %w", err)
	}
	if rng == nil {
		return nil, ErrNoHeadRevision
	}
	return e.DiffForRange(backend, *rng)
}

// DiffForRange compares an explicitly supplied revision range.
func (e *Engine) DiffForRange(backend Backend, rng review.RevisionRange) (*review.Diff, error) {
	events, err := backend.CompareRange(rng, e.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compare revisions: %w", err)
	}

	result := &review.Diff{Range: rng, Files: buildFiles(events)}
	e.logger.Debug("built diff", "head", rng.Head.OID, "files", len(result.Files))
	return result, nil
}

// DiffWorkspace compares the head commit tree against the combined
// index and working tree. The reported range is head..head.
func (e *Engine) DiffWorkspace(backend Backend) (*review.Diff, error) {
	rng, err := backend.RevisionRange()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision range: %w", err)
	}
	if rng == nil {
		return nil, ErrNoHeadRevision
	}

	events, err := backend.CompareWorkspace(e.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compare workspace: %w", err)
	}

	head := rng.Head
	result := &review.Diff{
		Range: review.RevisionRange{Base: &head, Head: head},
		Files: buildFiles(events),
	}
	e.logger.Debug("built workspace diff", "head", head.OID, "files", len(result.Files))
	return result, nil
}
