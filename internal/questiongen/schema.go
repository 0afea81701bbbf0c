package questiongen

import (
	"github.com/abhisek/quizy/internal/llm"
	"github.com/abhisek/quizy/internal/quiz"
)

// QuestionsSchema defines the JSON schema for a batch of quiz questions.
var QuestionsSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of multiple-choice quiz questions with explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": quiz.QuestionsPerQuiz,
				"maxItems": quiz.QuestionsPerQuiz,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text.",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    quiz.OptionsPerQuestion,
							"maxItems":    quiz.OptionsPerQuestion,
							"description": "An array of 4 possible answers.",
						},
						"correctAnswerIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     quiz.OptionsPerQuestion - 1,
							"description": "The 0-based index of the correct answer in the options array.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A brief explanation of why the answer is correct.",
						},
					},
					"required":             []any{"question", "options", "correctAnswerIndex", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
