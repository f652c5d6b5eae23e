package plugin

import "github.com/refracthq/refract/internal/review"

// Capabilities describes what a review agent plugin supports.
type Capabilities struct {
	// ListThreads reports whether the plugin can enumerate review
	// threads to attach to.
	ListThreads bool `json:"list_threads"`
	// AttachWithoutThread reports whether a session may start without
	// an existing thread.
	AttachWithoutThread bool `json:"attach_without_thread"`
	// Polling reports whether the plugin tracks revision progress.
	Polling bool `json:"polling"`
}

// Summary identifies a registered plugin.
type Summary struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Capabilities Capabilities `json:"capabilities"`
}

// ThreadRef points at a review thread on the plugin's side.
type ThreadRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Session is an active attachment between a review and a plugin.
type Session struct {
	PluginID  string     `json:"plugin_id"`
	SessionID string     `json:"session_id"`
	Thread    *ThreadRef `json:"thread,omitempty"`
}

// Diagnostic is an analyzer finding riding along with a review.
type Diagnostic struct {
	Severity review.Severity   `json:"severity"`
	Message  string            `json:"message"`
	Location *review.FileRange `json:"location,omitempty"`
}

// ReviewPayload is the content of one review submission.
type ReviewPayload struct {
	Summary     string                `json:"summary,omitempty"`
	Comments    []review.CommentDraft `json:"comments"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty"`
}

// SubmissionResult reports the outcome of posting a review.
type SubmissionResult struct {
	Accepted  bool   `json:"accepted"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

// RevisionState tracks a submitted revision through the agent's
// pipeline.
type RevisionState string

const (
	RevisionPending    RevisionState = "pending"
	RevisionInProgress RevisionState = "in_progress"
	RevisionCompleted  RevisionState = "completed"
	RevisionFailed     RevisionState = "failed"
)

// RevisionProgress is a snapshot of a revision's state.
type RevisionProgress struct {
	State  RevisionState `json:"state"`
	Detail string        `json:"detail,omitempty"`
}
