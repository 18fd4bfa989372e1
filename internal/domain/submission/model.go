package submission

// Metadata is attached to every dispatched record alongside the sanitized
// form fields. All of it is derived client state, not user input.
type Metadata struct {
	Source    string
	UserAgent string
	Referrer  string
	SessionID string
}

// Outcome is what the UI layer gets back from Submit. ID is a locally
// generated identifier for user feedback only; it is not the server's
// record id, which the client never learns.
type Outcome struct {
	Success bool     `json:"success"`
	ID      string   `json:"id,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
