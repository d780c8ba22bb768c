package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/fapm/internal/model"
)

// RecordSyncRun stores the summary of a finished sync.
func (s *SQLiteStore) RecordSyncRun(ctx context.Context, run model.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_runs (
			id, folders, pages, scanned,
			new_count, moved_count, restored_count,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Folders, run.Pages, run.Scanned,
		run.NewCount, run.MovedCount, run.RestoredCount,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}

	return tx.Commit()
}

// LastSyncRun returns the most recently finished sync, or nil if the
// archive has never been synced.
func (s *SQLiteStore) LastSyncRun(ctx context.Context) (*model.SyncRun, error) {
	var run model.SyncRun
	err := s.db.GetContext(ctx, &run, `
		SELECT id, folders, pages, scanned,
			new_count, moved_count, restored_count,
			started_at, finished_at
		FROM sync_runs
		ORDER BY finished_at DESC
		LIMIT 1`,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting last sync run: %w", err)
	}
	return &run, nil
}
