package driven

// PromptStore provides access to model prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerWithContext wraps retrieved context and a question.
	// The template expects two %s placeholders: context, then question.
	PromptAnswerWithContext = "answer_with_context"

	// PromptSystem is the system prompt sent with every context answer.
	// It has no format placeholders.
	PromptSystem = "system"
)
