package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/refracthq/refract/internal/logging"
	"github.com/refracthq/refract/internal/review"
)

// ErrBareRepository is returned when the opened repository has no working tree.
var ErrBareRepository = errors.New("repository has no working tree")

// Repository is a handle to a git repository and its working tree.
type Repository struct {
	repo   *gogit.Repository
	root   string
	logger logging.Logger
}

// Open discovers and opens the repository containing path.
func Open(path string, logger logging.Logger) (*Repository, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, fmt.Errorf("%w: %s", ErrBareRepository, abs)
		}
		return nil, fmt.Errorf("failed to access worktree: %w", err)
	}

	return &Repository{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		logger: logger.With("component", "git_repository"),
	}, nil
}

// Root returns the absolute path of the repository working tree root.
func (r *Repository) Root() string {
	return r.root
}

// Info returns static metadata about the repository.
func (r *Repository) Info() (review.RepositoryInfo, error) {
	info := review.RepositoryInfo{
		Root:   r.root,
		GitDir: filepath.Join(r.root, gogit.GitDirName),
	}

	ref, err := r.repo.Reference(plumbing.ReferenceName("refs/remotes/origin/HEAD"), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return info, nil
		}
		return info, fmt.Errorf("failed to read origin HEAD: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		info.DefaultBranch = ref.Target().Short()
	}

	return info, nil
}

// WorkspaceStatus reports the current branch and whether the working
// tree or index carries any change, untracked files included.
func (r *Repository) WorkspaceStatus() (review.WorkspaceStatus, error) {
	var status review.WorkspaceStatus

	head, err := r.repo.Head()
	if err == nil && head.Name().IsBranch() {
		status.CurrentBranch = head.Name().Short()
	} else if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return status, fmt.Errorf("failed to read HEAD: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return status, fmt.Errorf("failed to access worktree: %w", err)
	}

	wtStatus, err := wt.Status()
	if err != nil {
		return status, fmt.Errorf("failed to compute worktree status: %w", err)
	}

	status.Dirty = !wtStatus.IsClean()
	return status, nil
}

// HeadRevision returns the current head revision, or nil when the
// repository has no commits yet.
func (r *Repository) HeadRevision() (*review.Revision, error) {
	ref, commit, err := r.headCommit()
	if err != nil || commit == nil {
		return nil, err
	}
	rev := commitToRevision(commit, ref)
	return &rev, nil
}

// BaseRevision returns the first parent of head, or nil for root
// commits and unborn repositories.
func (r *Repository) BaseRevision() (*review.Revision, error) {
	_, commit, err := r.headCommit()
	if err != nil || commit == nil {
		return nil, err
	}
	if commit.NumParents() == 0 {
		return nil, nil
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parent commit: %w", err)
	}
	rev := commitToRevision(parent, "")
	return &rev, nil
}

// RevisionRange returns the head revision paired with its first parent
// as base. The base is nil for root commits. A nil range means the
// repository has no head commit.
func (r *Repository) RevisionRange() (*review.RevisionRange, error) {
	ref, commit, err := r.headCommit()
	if err != nil || commit == nil {
		return nil, err
	}

	rng := &review.RevisionRange{Head: commitToRevision(commit, ref)}
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent commit: %w", err)
		}
		base := commitToRevision(parent, "")
		rng.Base = &base
	}

	return rng, nil
}

// ResolveRevision resolves a revision expression (branch, tag, hash,
// HEAD~1, ...) to a revision.
func (r *Repository) ResolveRevision(rev string) (review.Revision, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return review.Revision{}, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return review.Revision{}, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commitToRevision(commit, ""), nil
}

// Absolute resolves a repository-relative, slash-separated path to an
// absolute filesystem path.
func (r *Repository) Absolute(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// ReadFile reads the current content of a file in the working tree.
// A missing file surfaces as an error wrapping fs.ErrNotExist.
func (r *Repository) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(r.Absolute(rel))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return string(data), nil
}

// WriteFile writes new content for a file in the working tree.
func (r *Repository) WriteFile(rel string, content string) error {
	if err := os.WriteFile(r.Absolute(rel), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// Stage records the current on-disk content of the path in the index.
func (r *Repository) Stage(rel string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to access worktree: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	r.logger.Debug("staged path", "path", rel)
	return nil
}

// headCommit resolves HEAD to its commit, returning a nil commit when
// the repository is unborn.
func (r *Repository) headCommit() (string, *object.Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to read HEAD: %w", err)
	}

	reference := ""
	if ref.Name().IsBranch() {
		reference = ref.Name().Short()
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return "", nil, fmt.Errorf("failed to read head commit: %w", err)
	}
	return reference, commit, nil
}

func commitToRevision(commit *object.Commit, reference string) review.Revision {
	summary := commit.Message
	if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
		summary = summary[:idx]
	}

	return review.Revision{
		OID:       commit.Hash.String(),
		Reference: reference,
		Summary:   summary,
		Author:    convertSignature(commit.Author),
		Committer: convertSignature(commit.Committer),
		Timestamp: commit.Committer.When.Unix(),
	}
}

func convertSignature(sig object.Signature) *review.Signature {
	if sig.Name == "" && sig.Email == "" {
		return nil
	}
	return &review.Signature{Name: sig.Name, Email: sig.Email}
}
