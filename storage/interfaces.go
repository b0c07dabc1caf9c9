package storage

import (
	"context"

	"shop-seeker/models"
)

// Store is the interface any outcome store must satisfy. It holds two
// append-only outcome tables, Approved and Rejected.
type Store interface {
	// LoadSeen returns the links recorded under either outcome, header excluded.
	LoadSeen(ctx context.Context) (*models.SeenSet, error)
	AppendApproved(ctx context.Context, rec Record) error
	AppendRejected(ctx context.Context, rec Record) error
	Close() error
}
