package ai

import "context"

// Completer is the single capability the interview core needs from a
// language model: a system prompt, a user prompt and a sampling temperature
// in, free-form text out. Implementations are expected to be safe for
// concurrent use.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// Model is implemented by completers that can report which model they talk to.
// Used only for logging.
type Model interface {
	Model() string
}
