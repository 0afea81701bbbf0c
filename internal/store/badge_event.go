package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendBadgeEvent(ctx context.Context, data BadgeEventData) error {
	err := r.appendEvent(ctx, tableBadgeEvents,
		[]string{"badge_id", "badge_name", "session_id", "xp", "streak"},
		[]any{data.BadgeID, data.BadgeName, data.SessionID, data.XP, data.Streak},
	)
	if err != nil {
		return fmt.Errorf("save badge event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEventRecord, error) {
	sel := sqlite().Select("sequence", "timestamp", "badge_id", "badge_name", "session_id", "xp", "streak").
		From(entsql.Table(tableBadgeEvents))
	sel = applyOpts(sel, opts)

	var out []BadgeEventRecord
	if err := r.queryInto(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("query badge events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AppendMediaEvent(ctx context.Context, data MediaEventData) error {
	err := r.appendEvent(ctx, tableMediaEvents,
		[]string{"kind", "backend", "subject", "path", "bytes", "latency_ms", "success", "error_message"},
		[]any{data.Kind, data.Backend, data.Subject, data.Path, data.Bytes, data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save media event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryMediaEvents(ctx context.Context, kind string, opts QueryOpts) ([]MediaEventRecord, error) {
	sel := sqlite().Select(
		"sequence", "timestamp", "kind", "backend", "subject", "path",
		"bytes", "latency_ms", "success", "error_message",
	).
		From(entsql.Table(tableMediaEvents))
	if kind != "" {
		sel.Where(entsql.EQ("kind", kind))
	}
	sel = applyOpts(sel, opts)

	var out []MediaEventRecord
	if err := r.queryInto(ctx, sel, &out); err != nil {
		return nil, fmt.Errorf("query media events: %w", err)
	}
	return out, nil
}
