package plugin

import (
	"fmt"

	"github.com/refracthq/refract/internal/review"
	"github.com/refracthq/refract/internal/store"
)

const (
	localPluginID    = "local-git"
	localPluginLabel = "Local Git"
)

// LocalPlugin is the built-in review agent. It has no remote side:
// sessions and posted comments persist in the local review store and
// revisions complete immediately.
type LocalPlugin struct {
	store *store.Store
}

// NewLocalPlugin creates the built-in local plugin over the review
// store.
func NewLocalPlugin(reviews *store.Store) (*LocalPlugin, error) {
	if reviews == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &LocalPlugin{store: reviews}, nil
}

func (p *LocalPlugin) ID() string    { return localPluginID }
func (p *LocalPlugin) Label() string { return localPluginLabel }

func (p *LocalPlugin) Capabilities() Capabilities {
	return Capabilities{
		ListThreads:         true,
		AttachWithoutThread: true,
		Polling:             true,
	}
}

// ListThreads surfaces the stored review threads.
func (p *LocalPlugin) ListThreads() ([]ThreadRef, error) {
	threads, err := p.store.ListThreads("")
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	refs := make([]ThreadRef, 0, len(threads))
	for _, thread := range threads {
		title := thread.Location.Path
		if len(thread.Comments) > 0 {
			title = thread.Comments[0].Body
		}
		refs = append(refs, ThreadRef{ID: thread.ID, Title: title})
	}
	return refs, nil
}

// Attach starts a session, bound to a stored thread when threadID is
// non-empty.
func (p *LocalPlugin) Attach(threadID string) (*Session, error) {
	var ref *ThreadRef
	if threadID != "" {
		thread, err := p.store.GetThread(threadID)
		if err != nil {
			return nil, err
		}
		ref = &ThreadRef{ID: thread.ID, Title: thread.Location.Path}
	}

	session, err := p.store.CreateSession(localPluginID, "", threadID)
	if err != nil {
		return nil, err
	}

	return &Session{PluginID: localPluginID, SessionID: session.ID, Thread: ref}, nil
}

// PostReview persists the payload's comments. Comments with a location
// open a new thread there; the rest land on the session's thread when
// one exists, and are otherwise rejected.
func (p *LocalPlugin) PostReview(session *Session, payload ReviewPayload) (*SubmissionResult, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if _, err := p.store.GetSession(session.SessionID); err != nil {
		return nil, err
	}

	for _, draft := range payload.Comments {
		if draft.Location != nil {
			thread := &review.ReviewThread{
				Location: *draft.Location,
				Comments: []review.ReviewComment{{
					Body:     draft.Body,
					Severity: draft.Severity,
				}},
			}
			if err := p.store.SaveThread(thread); err != nil {
				return nil, err
			}
			continue
		}

		if session.Thread == nil {
			return &SubmissionResult{
				Accepted: false,
				Message:  "comment without location requires an attached thread",
			}, nil
		}
		if _, err := p.store.AddComment(session.Thread.ID, draft); err != nil {
			return nil, err
		}
	}

	return &SubmissionResult{Accepted: true, Reference: session.SessionID}, nil
}

// PollRevision always reports completed: there is no external agent to
// wait on.
func (p *LocalPlugin) PollRevision(session *Session) (*RevisionProgress, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	return &RevisionProgress{State: RevisionCompleted}, nil
}
