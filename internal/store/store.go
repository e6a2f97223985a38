// Package store persists inspection report summaries.
package store

import (
	"context"
	"sync"
)

// Row is one persisted inspection outcome.
type Row struct {
	Key          string `json:"key"`
	Distribution string `json:"distribution,omitempty"`
	Version      string `json:"version,omitempty"`
	Status       string `json:"status"`
	Detail       string `json:"detail,omitempty"`
	Violations   int    `json:"violations"`
	Timestamp    int64  `json:"timestamp"`
}

// Store abstracts report history.
type Store interface {
	RecordReport(ctx context.Context, row Row) error
	Recent(ctx context.Context, limit int) ([]Row, error)
}

// MemoryStore keeps rows in memory; used in tests and when Postgres is not
// configured.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Row
}

func (m *MemoryStore) RecordReport(_ context.Context, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.rows) {
		limit = len(m.rows)
	}
	out := make([]Row, 0, limit)
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}
