// Package history keeps a bounded trail of submitted questions and what was
// done with them.
package history

import (
	"context"
	"time"
)

type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Command   string    `json:"command,omitempty"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// NopStore discards entries. Used when no Redis is configured.
type NopStore struct{}

func (NopStore) Record(ctx context.Context, entry Entry) error {
	return nil
}

func (NopStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return []Entry{}, nil
}
