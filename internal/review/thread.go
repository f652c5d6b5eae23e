package review

import "time"

// Severity grades a review finding.
type Severity string

const (
	// SeverityInfo is informational context without required action.
	SeverityInfo Severity = "info"
	// SeverityWarning is a potential issue that may need attention.
	SeverityWarning Severity = "warning"
	// SeverityError is a definite issue that must be addressed.
	SeverityError Severity = "error"
)

// CommentDraft is a comment prepared for submission.
type CommentDraft struct {
	Body     string     `json:"body"`
	Location *FileRange `json:"location,omitempty"`
	Severity Severity   `json:"severity,omitempty"`
}

// ReviewComment is a published comment within a thread.
type ReviewComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	Severity  Severity  `json:"severity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewThread is a comment thread anchored to a diff location.
type ReviewThread struct {
	ID        string          `json:"id"`
	Location  FileRange       `json:"location"`
	Resolved  bool            `json:"resolved"`
	Comments  []ReviewComment `json:"comments"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
