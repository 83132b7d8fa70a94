package llm

import "errors"

var (
	// ErrNotConfigured indicates no credential is configured for the selected provider.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrProviderUnavailable indicates the model server is unreachable.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrEmptyResponse indicates the provider answered without any content.
	ErrEmptyResponse = errors.New("llm returned no content")
)
