package interfaces

import "context"

// Classifier is the single capability the categorizer needs from an AI
// backend: one prompt in, one raw response out. The response is expected to be
// a JSON object but the caller must tolerate anything, including an empty
// string. Implementations own their own timeout and retry discipline; the
// categorizer never retries.
type Classifier interface {
	// Classify sends a categorization prompt and returns the raw response text.
	Classify(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend for logging ("noop", "claude", "gemini").
	Name() string
}
