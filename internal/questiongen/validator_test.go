package questiongen

import (
	"strings"
	"testing"

	"github.com/abhisek/quizy/internal/quiz"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(qs []quiz.Question) []quiz.Question
		validator Validator
		wantErr   bool
	}{
		{"structural ok", nil, &StructuralValidator{}, false},
		{"too few", func(qs []quiz.Question) []quiz.Question { return qs[:4] }, &StructuralValidator{}, true},
		{"three options", func(qs []quiz.Question) []quiz.Question {
			qs[0].Options = qs[0].Options[:3]
			return qs
		}, &StructuralValidator{}, true},
		{"index out of range", func(qs []quiz.Question) []quiz.Question {
			qs[1].CorrectIndex = 4
			return qs
		}, &StructuralValidator{}, true},
		{"no explanation", func(qs []quiz.Question) []quiz.Question {
			qs[2].Explanation = " "
			return qs
		}, &StructuralValidator{}, true},
		{"long question", func(qs []quiz.Question) []quiz.Question {
			qs[3].Text = strings.Repeat("x", maxQuestionLen+1)
			return qs
		}, &StructuralValidator{}, true},
		{"options distinct", nil, &DuplicateOptionValidator{}, false},
		{"options repeat ignoring case", func(qs []quiz.Question) []quiz.Question {
			qs[0].Options[3] = "ALPHA "
			return qs
		}, &DuplicateOptionValidator{}, true},
		{"questions distinct", nil, &DuplicateQuestionValidator{}, false},
		{"question repeats", func(qs []quiz.Question) []quiz.Question {
			qs[4].Text = "  " + strings.ToUpper(qs[0].Text)
			return qs
		}, &DuplicateQuestionValidator{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := batch("Test").Questions
			if tt.mutate != nil {
				qs = tt.mutate(qs)
			}
			verr := tt.validator.Validate(qs)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil {
				if verr.Validator != tt.validator.Name() || !verr.Retryable {
					t.Errorf("error = %+v", verr)
				}
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Fatalf("empty = %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Fatalf("dedup = %q", got)
	}
}
