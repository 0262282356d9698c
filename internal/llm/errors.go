package llm

import "fmt"

// ServiceError represents a failed call to the generative service: transport
// faults, provider-side errors, quota rejections. Retried with backoff by the
// structured-call wrapper; after the retry budget the variant or stage that
// issued the call is marked failed.
type ServiceError struct {
	Op    string
	Model string
	Cause error
}

func (e *ServiceError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s: call to %s failed: %v", e.Op, e.Model, e.Cause)
	}
	return fmt.Sprintf("%s: service call failed: %v", e.Op, e.Cause)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// UnparsableError means the service answered but no structured record could be
// recovered from the text, even after the repair ladder. Recoverable: callers
// fall back to their default record and the pipeline continues.
type UnparsableError struct {
	Attempts int
	Raw      string
	Cause    error
}

func (e *UnparsableError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("response unparsable after %d attempts: %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("response unparsable: %v", e.Cause)
}

func (e *UnparsableError) Unwrap() error {
	return e.Cause
}

// EmptyOutputError means the provider reported success but returned no usable
// payload (no candidates, zero-length image bytes). Treated like a service
// failure for retry purposes.
type EmptyOutputError struct {
	Op      string
	Message string
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("%s: empty output: %s", e.Op, e.Message)
}
