package review

// SuggestionEdit replaces the text covered by Location with Replacement.
type SuggestionEdit struct {
	Location    FileRange `json:"location"`
	Replacement string    `json:"replacement"`
}

// Suggestion is a set of text edits proposed against the head side of
// the reviewed files. The engine does not retain suggestions after the
// call that consumed them.
type Suggestion struct {
	Description string           `json:"description,omitempty"`
	Edits       []SuggestionEdit `json:"edits"`
}

// ApplyPreview is the rendered patch a suggestion would produce for one
// file. Files whose edits reproduce the existing text yield no preview.
type ApplyPreview struct {
	Path  string `json:"path"`
	Patch string `json:"patch"`
}
