package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizy/internal/quiz"
)

const systemPrompt = `You write quiz questions for a learning game.

Rules:
- Every question has exactly 4 options and exactly one correct answer.
- Distractors must be plausible but clearly incorrect to someone who knows the topic.
- Keep questions self-contained and under 200 characters.
- The explanation is one or two sentences saying why the correct answer is right.
- Vary the position of the correct answer across questions.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message for a subject.
func buildUserMessage(subject string, prior []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d unique, engaging multiple-choice questions about %s for %s. ",
		quiz.QuestionsPerQuiz, subject, cfg.Audience)
	b.WriteString("Ensure one correct answer and three plausible but incorrect distractors. ")
	b.WriteString("Provide a brief explanation for the correct answer.\n")

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max entries. Returns "None" if there are none.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
