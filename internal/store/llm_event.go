package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "subject",
	"input_tokens", "output_tokens", "cost_usd", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.appendEvent(ctx, tableLLMRequestEvents,
		[]string{
			"provider", "model", "purpose", "subject", "input_tokens", "output_tokens", "cost_usd",
			"latency_ms", "success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.Subject, data.InputTokens, data.OutputTokens, data.CostUSD,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := applyOpts(sqlite().Select(llmEventColumns...).From(entsql.Table(tableLLMRequestEvents)), opts)

	var out []LLMRequestEventRecord
	if err := r.queryInto(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	sel := sqlite().Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequestEvents)).
		Where(entsql.EQ("id", id))

	var out []LLMRequestEventRecord
	if err := r.queryInto(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

type usageRow struct {
	Key          string  `sql:"key"`
	Calls        int     `sql:"calls"`
	InputTokens  int     `sql:"input_tokens"`
	OutputTokens int     `sql:"output_tokens"`
	CostUSD      float64 `sql:"cost_usd"`
	AvgLatency   float64 `sql:"avg_latency_ms"`
}

func (r *eventRepo) llmUsageBy(ctx context.Context, column string) ([]usageRow, error) {
	sel := sqlite().Select(
		entsql.As(column, "key"),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Sum("cost_usd"), "cost_usd"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
	).
		From(entsql.Table(tableLLMRequestEvents)).
		GroupBy(column).
		OrderBy(entsql.Desc("calls"))

	var rows []usageRow
	if err := r.queryInto(ctx, sel, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	rows, err := r.llmUsageBy(ctx, "purpose")
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	out := make([]PurposeUsage, len(rows))
	for i, row := range rows {
		out[i] = PurposeUsage{
			Purpose:      row.Key,
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			CostUSD:      row.CostUSD,
			AvgLatencyMs: int64(row.AvgLatency),
		}
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.llmUsageBy(ctx, "model")
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	out := make([]ModelUsage, len(rows))
	for i, row := range rows {
		out[i] = ModelUsage{
			Model:        row.Key,
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
		}
	}
	return out, nil
}

type subjectUsageRow struct {
	Subject  string  `sql:"subject"`
	Calls    int     `sql:"calls"`
	Failures int     `sql:"failures"`
	CostUSD  float64 `sql:"cost_usd"`
}

func (r *eventRepo) LLMUsageBySubject(ctx context.Context) ([]SubjectUsage, error) {
	sel := sqlite().Select(
		"subject",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
		entsql.As(entsql.Sum("cost_usd"), "cost_usd"),
	).
		From(entsql.Table(tableLLMRequestEvents)).
		Where(entsql.And(
			entsql.EQ("purpose", "question-gen"),
			entsql.NEQ("subject", ""),
		)).
		GroupBy("subject").
		OrderBy(entsql.Desc("calls"), "subject")

	var rows []subjectUsageRow
	if err := r.queryInto(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query usage by subject: %w", err)
	}
	out := make([]SubjectUsage, len(rows))
	for i, row := range rows {
		out[i] = SubjectUsage(row)
	}
	return out, nil
}
