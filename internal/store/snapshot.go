package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizy/internal/progression"
)

// snapshotVersion is bumped when the stored progress JSON changes shape.
const snapshotVersion = 1

type snapshotPayload struct {
	Version  int                      `json:"version"`
	Progress progression.UserProgress `json:"progress"`
}

type snapshotRow struct {
	ID        int       `sql:"id"`
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`
	Data      []byte    `sql:"data"`
}

// progressRepo implements ProgressRepo using ent's SQL builders.
type progressRepo struct {
	drv *entsql.Driver
}

func (r *progressRepo) Save(ctx context.Context, snap *ProgressSnapshot) error {
	data, err := json.Marshal(snapshotPayload{Version: snapshotVersion, Progress: snap.Progress})
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := sqlite().Insert(tableProgressSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, ts.UTC(), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *progressRepo) Latest(ctx context.Context) (*ProgressSnapshot, error) {
	sel := sqlite().Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableProgressSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1)

	var rows []snapshotRow
	if err := queryInto(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToSnapshot(rows[0])
}

func (r *progressRepo) Prune(ctx context.Context, keep int) error {
	// Find the newest snapshot that falls outside the keep window.
	sel := sqlite().Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableProgressSnapshots)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1)

	var rows []snapshotRow
	if err := queryInto(ctx, r.drv, sel, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(rows) == 0 {
		return nil // fewer than keep snapshots exist
	}

	query, args := sqlite().Delete(tableProgressSnapshots).
		Where(entsql.LTE("id", rows[0].ID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *progressRepo) Count(ctx context.Context) (int, error) {
	query, args := sqlite().Select().Count().From(entsql.Table(tableProgressSnapshots)).Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

func rowToSnapshot(row snapshotRow) (*ProgressSnapshot, error) {
	var payload snapshotPayload
	if err := json.Unmarshal(row.Data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	if payload.Progress.UnlockedBadges == nil {
		payload.Progress.UnlockedBadges = []string{}
	}
	return &ProgressSnapshot{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: row.Timestamp,
		Progress:  payload.Progress,
	}, nil
}
