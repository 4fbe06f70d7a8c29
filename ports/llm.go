package ports

import "context"

// TextGenerator is an external text-generation capability. Implementations
// are expensive to construct (HTTP client, credentials, model selection) and
// are built once per process and passed by reference to their consumers.
type TextGenerator interface {
	// Generate returns the model's completion of prompt, bounded by
	// maxOutputLength tokens.
	Generate(ctx context.Context, prompt string, maxOutputLength int) (string, error)

	// Model names the model answering, for logging and the question log.
	Model() string
}
