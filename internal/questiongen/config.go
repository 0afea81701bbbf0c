package questiongen

// Config controls the behavior of the LLMSource.
type Config struct {
	// Validators run in order on every generated batch; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// MaxTokensCeiling caps the budget when a truncated batch is requested
	// again with a doubled budget.
	MaxTokensCeiling int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is how many recently asked questions per subject
	// are listed in the prompt so the model avoids repeating them.
	MaxPriorQuestions int

	// Audience describes who the questions are for.
	Audience string
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateOptionValidator{},
			&DuplicateQuestionValidator{},
		},
		MaxTokens:         2048,
		MaxTokensCeiling:  8192,
		Temperature:       0.9,
		MaxPriorQuestions: 10,
		Audience:          "a high school student",
	}
}
