package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/netwarden/netwarden/internal/domain"
)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Insert(ctx context.Context, a domain.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts(id, kind, severity, source_ip, dest_ip, protocol, score, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			severity = excluded.severity,
			source_ip = excluded.source_ip,
			dest_ip = excluded.dest_ip,
			protocol = excluded.protocol,
			score = excluded.score,
			description = excluded.description,
			created_at = excluded.created_at
	`, a.ID, string(a.Kind), string(a.Severity), a.SourceIP, a.DestIP, a.Protocol, a.Score, a.Description, storedMillis(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return nil
}

func (r *AlertRepo) ListRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, severity, source_ip, dest_ip, protocol, score, description, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.Alert
	for rows.Next() {
		var (
			a         domain.Alert
			kind      string
			severity  string
			createdMs int64
		)
		if err := rows.Scan(&a.ID, &kind, &severity, &a.SourceIP, &a.DestIP, &a.Protocol, &a.Score, &a.Description, &createdMs); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Kind = domain.AlertKind(kind)
		a.Severity = domain.Severity(severity)
		a.CreatedAt = storedTime(createdMs)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return out, nil
}

// MaxID returns the highest cached alert ID, or 0 for an empty cache.
// Pollers resume from it so restarts do not refetch everything.
func (r *AlertRepo) MaxID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM alerts`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max alert id: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}

	return max.Int64, nil
}

func (r *AlertRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE created_at < ?`, storedMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete old alerts: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted alerts: %w", err)
	}

	return deleted, nil
}
