package storage

import (
	"context"
	"fmt"

	"shop-seeker/config"
)

// Open returns the Store selected by cfg.Backend. googleCreds is only needed
// by the sheets backend.
func Open(ctx context.Context, cfg config.Store, googleCreds []byte) (Store, error) {
	switch cfg.Backend {
	case "csv", "":
		return NewCSVStore(cfg.Target)
	case "postgres":
		return NewPostgresStore(ctx, cfg.Target)
	case "sheets":
		return NewSheetsStore(ctx, googleCreds, cfg.Target)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
