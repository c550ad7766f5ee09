package repository

import "context"

// TextGenerator completes a prompt with a language model.
type TextGenerator interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}
