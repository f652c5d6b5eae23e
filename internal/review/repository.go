package review

// Signature is a structured author or committer identity.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Revision identifies a single commit.
type Revision struct {
	OID       string     `json:"oid"`
	Reference string     `json:"reference,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Author    *Signature `json:"author,omitempty"`
	Committer *Signature `json:"committer,omitempty"`
	Timestamp int64      `json:"timestamp,omitempty"`
}

// RevisionRange is the pair of revisions a diff compares. Base is nil
// for root commits, in which case the head tree is compared against an
// empty base tree.
type RevisionRange struct {
	Base *Revision `json:"base,omitempty"`
	Head Revision  `json:"head"`
}

// WorkspaceStatus summarizes the working tree state.
type WorkspaceStatus struct {
	CurrentBranch string `json:"current_branch,omitempty"`
	Dirty         bool   `json:"dirty"`
}

// RepositoryInfo holds static metadata about an opened repository.
type RepositoryInfo struct {
	Root          string `json:"root"`
	GitDir        string `json:"git_dir"`
	DefaultBranch string `json:"default_branch,omitempty"`
}
