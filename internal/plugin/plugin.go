package plugin

// Plugin is a review agent a local review can be submitted through.
// Implementations must be safe for use from a single goroutine; the
// service does not serialize calls across plugins.
type Plugin interface {
	// ID is the stable registry key.
	ID() string
	// Label is the human-readable name.
	Label() string
	// Capabilities reports what this plugin supports.
	Capabilities() Capabilities
	// ListThreads enumerates threads available to attach to. Plugins
	// without the ListThreads capability return an empty slice.
	ListThreads() ([]ThreadRef, error)
	// Attach starts a session, optionally bound to an existing thread.
	// An empty threadID requests a detached session.
	Attach(threadID string) (*Session, error)
	// PostReview submits a review through the session.
	PostReview(session *Session, payload ReviewPayload) (*SubmissionResult, error)
	// PollRevision reports the session's revision progress.
	PollRevision(session *Session) (*RevisionProgress, error)
}
