package store

import (
	"context"
	"database/sql"
)

// PostgresStore implements Store using Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a new store with an existing *sql.DB.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the reports table when it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id BIGSERIAL PRIMARY KEY,
			key TEXT NOT NULL,
			distribution TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			violations INT NOT NULL DEFAULT 0,
			ts BIGINT NOT NULL
		)`)
	return err
}

func (p *PostgresStore) RecordReport(ctx context.Context, row Row) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO reports (key, distribution, version, status, detail, violations, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.Key, row.Distribution, row.Version, row.Status, row.Detail, row.Violations, row.Timestamp)
	return err
}

func (p *PostgresStore) Recent(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT key, distribution, version, status, detail, violations, ts
		FROM reports ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Key, &r.Distribution, &r.Version, &r.Status, &r.Detail, &r.Violations, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
