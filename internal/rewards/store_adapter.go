package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/store"
)

// DefaultSnapshotsKept is how many progress snapshots survive pruning.
const DefaultSnapshotsKept = 20

// StoreAdapter bridges store.ProgressRepo to ProgressStore. Each save
// writes a new snapshot stamped with the next global sequence number.
type StoreAdapter struct {
	Repo     store.ProgressRepo
	Sequence func(ctx context.Context) (int64, error)
	Keep     int
}

// NewStoreAdapter wires the adapter to an open store.
func NewStoreAdapter(s *store.Store) *StoreAdapter {
	return &StoreAdapter{
		Repo:     s.ProgressRepo(),
		Sequence: s.NextSequence,
		Keep:     DefaultSnapshotsKept,
	}
}

func (a *StoreAdapter) Load(ctx context.Context) (*progression.UserProgress, error) {
	snap, err := a.Repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	p := snap.Progress
	return &p, nil
}

func (a *StoreAdapter) Save(ctx context.Context, p progression.UserProgress) error {
	var seq int64
	if a.Sequence != nil {
		n, err := a.Sequence(ctx)
		if err != nil {
			return fmt.Errorf("reserve sequence: %w", err)
		}
		seq = n
	}

	if err := a.Repo.Save(ctx, &store.ProgressSnapshot{
		Sequence:  seq,
		Timestamp: time.Now().UTC(),
		Progress:  p,
	}); err != nil {
		return err
	}

	if a.Keep > 0 {
		if err := a.Repo.Prune(ctx, a.Keep); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}
	return nil
}
