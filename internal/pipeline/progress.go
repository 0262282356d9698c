package pipeline

// ProgressEvent is emitted to the run's progress callback as stages start,
// finish, and fail. Variant-level failures carry the variant key.
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	// Key is the scheme/format/language tuple for variant-level events.
	Key string `json:"key,omitempty"`
}
