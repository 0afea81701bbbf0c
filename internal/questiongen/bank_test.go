package questiongen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/quiz"
)

func TestDefaultBankCoversSubjects(t *testing.T) {
	bank, err := NewBankSource(1)
	require.NoError(t, err)
	assert.Equal(t, len(progression.DefaultSubjects), bank.Subjects())

	for _, name := range progression.SubjectNames() {
		qs, err := bank.FetchQuestions(context.Background(), name)
		require.NoError(t, err, name)
		require.Len(t, qs, quiz.QuestionsPerQuiz)

		seen := map[string]bool{}
		for _, q := range qs {
			require.NoError(t, q.Validate())
			assert.False(t, seen[q.Text], "duplicate question %q", q.Text)
			seen[q.Text] = true
		}
	}
}

func TestBankPassesValidators(t *testing.T) {
	bank, err := NewBankSource(7)
	require.NoError(t, err)

	for _, name := range progression.SubjectNames() {
		qs, err := bank.FetchQuestions(context.Background(), name)
		require.NoError(t, err)
		for _, v := range DefaultConfig().Validators {
			assert.Nil(t, v.Validate(qs), "%s failed %s", name, v.Name())
		}
	}
}

func TestBankSubjectLookupIgnoresCase(t *testing.T) {
	bank, err := NewBankSource(1)
	require.NoError(t, err)

	_, err = bank.FetchQuestions(context.Background(), "  general knowledge ")
	assert.NoError(t, err)

	_, err = bank.FetchQuestions(context.Background(), "Astrology")
	assert.True(t, errors.Is(err, ErrUnknownSubject))
}

func TestBankSameSeedSameOrder(t *testing.T) {
	a, err := NewBankSource(42)
	require.NoError(t, err)
	b, err := NewBankSource(42)
	require.NoError(t, err)

	qa, _ := a.FetchQuestions(context.Background(), "Math")
	qb, _ := b.FetchQuestions(context.Background(), "Math")
	assert.Equal(t, qa, qb)
}

func TestBankReturnsCopies(t *testing.T) {
	bank, err := NewBankSource(3)
	require.NoError(t, err)

	qs, _ := bank.FetchQuestions(context.Background(), "History")
	qs[0].Options[0] = "tampered"

	for range 10 {
		again, _ := bank.FetchQuestions(context.Background(), "History")
		for _, q := range again {
			assert.NotContains(t, q.Options, "tampered")
		}
	}
}

func TestParseBankRejectsSmallSubject(t *testing.T) {
	data := []byte(`
subjects:
  - name: Tiny
    questions:
      - question: Only one?
        options: [a, b, c, d]
        answer: 0
        explanation: yes
`)
	_, err := ParseBank(data, 1)
	assert.Error(t, err)
}

func TestParseBankRejectsBadAnswer(t *testing.T) {
	q := `
      - question: Q%d?
        options: [a, b, c, d]
        answer: 9
        explanation: e
`
	data := "subjects:\n  - name: Bad\n    questions:\n"
	for i := range quiz.QuestionsPerQuiz {
		data += fmt.Sprintf(q, i)
	}
	_, err := ParseBank([]byte(data), 1)
	assert.Error(t, err)
}
