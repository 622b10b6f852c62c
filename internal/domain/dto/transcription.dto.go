package dto

// TranscriptionResponse is the transcription API reply. The text field
// is optional: its absence means the API decoded nothing, which the
// caller must treat as "nothing to say", not as a fault.
type TranscriptionResponse struct {
	Text *string `json:"text,omitempty"`
}
