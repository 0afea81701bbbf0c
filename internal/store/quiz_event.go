package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	mult := data.Multiplier
	if mult == 0 {
		mult = 1
	}
	err := r.appendEvent(ctx, tableQuizEvents,
		[]string{"session_id", "subject", "action", "score", "questions", "xp_gained", "new_streak", "multiplier", "level"},
		[]any{data.SessionID, data.Subject, data.Action, data.Score, data.Questions, data.XPGained, data.NewStreak, mult, data.Level},
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.appendEvent(ctx, tableAnswerEvents,
		[]string{"session_id", "subject", "question_index", "question_text", "selected", "correct_index", "correct"},
		[]any{data.SessionID, data.Subject, data.QuestionIndex, data.QuestionText, data.Selected, data.CorrectIndex, data.Correct},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizSummaries(ctx context.Context, opts QueryOpts) ([]QuizSummary, error) {
	sel := sqlite().Select(
		"sequence", "timestamp", "session_id", "subject", "score",
		"questions", "xp_gained", "new_streak", "multiplier", "level",
	).
		From(entsql.Table(tableQuizEvents)).
		Where(entsql.EQ("action", QuizActionComplete))
	sel = applyOpts(sel, opts)

	var out []QuizSummary
	if err := r.queryInto(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("query quiz summaries: %w", err)
	}
	return out, nil
}

type subjectAccuracyRow struct {
	Subject  string `sql:"subject"`
	Answered int    `sql:"answered"`
	Correct  int    `sql:"correct_count"`
}

func (r *eventRepo) SubjectAccuracy(ctx context.Context) ([]SubjectStats, error) {
	sel := sqlite().Select(
		"subject",
		entsql.As(entsql.Count("*"), "answered"),
		entsql.As(entsql.Sum("correct"), "correct_count"),
	).
		From(entsql.Table(tableAnswerEvents)).
		GroupBy("subject").
		OrderBy("subject")

	var rows []subjectAccuracyRow
	if err := r.queryInto(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query subject accuracy: %w", err)
	}
	out := make([]SubjectStats, len(rows))
	for i, row := range rows {
		out[i] = SubjectStats(row)
	}
	return out, nil
}
