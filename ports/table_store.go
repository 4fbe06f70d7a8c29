package ports

import (
	"context"

	"datadash/domain/core"
	"datadash/domain/dataset"
)

// TableStore holds the currently loaded Table of each session.
type TableStore interface {
	// Put replaces whatever table the session held.
	Put(ctx context.Context, sessionID core.SessionID, table *dataset.Table) error

	// Get returns the session's table or core.ErrNoDataset.
	Get(ctx context.Context, sessionID core.SessionID) (*dataset.Table, error)

	// Delete drops the session's table. Deleting an empty slot is not an error.
	Delete(ctx context.Context, sessionID core.SessionID) error
}
