package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/netwarden/netwarden/internal/domain"
)

type BlockRepo struct {
	db *sql.DB
}

func NewBlockRepo(db *sql.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// ReplaceAll swaps the cached block list inside one transaction so
// readers never observe a half-replaced list.
func (r *BlockRepo) ReplaceAll(ctx context.Context, entries []domain.BlockEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace blocks tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return fmt.Errorf("clear blocks: %w", err)
	}
	for _, entry := range entries {
		trusted := int64(0)
		if entry.Trusted {
			trusted = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blocks(ip, reason, trusted, created_at)
			VALUES (?, ?, ?, ?)
		`, entry.IP, entry.Reason, trusted, storedMillis(entry.CreatedAt)); err != nil {
			return fmt.Errorf("insert block %s: %w", entry.IP, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace blocks tx: %w", err)
	}

	return nil
}

func (r *BlockRepo) List(ctx context.Context) ([]domain.BlockEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ip, reason, trusted, created_at
		FROM blocks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.BlockEntry
	for rows.Next() {
		var (
			entry     domain.BlockEntry
			trusted   int64
			createdMs int64
		)
		if err := rows.Scan(&entry.IP, &entry.Reason, &trusted, &createdMs); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		entry.Trusted = trusted != 0
		entry.CreatedAt = storedTime(createdMs)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	return out, nil
}

func (r *BlockRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE created_at < ? AND trusted = 0`, storedMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete old blocks: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted blocks: %w", err)
	}

	return deleted, nil
}
