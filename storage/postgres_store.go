package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"shop-seeker/models"
)

// PostgresStore persists outcomes to two PostgreSQL tables mirroring the
// spreadsheet tabs. Rows are only ever inserted.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS approved_listings (
			id                SERIAL PRIMARY KEY,
			title             TEXT NOT NULL DEFAULT '',
			price             TEXT NOT NULL DEFAULT '',
			sqft              TEXT NOT NULL DEFAULT '',
			address           TEXT NOT NULL DEFAULT '',
			link              TEXT NOT NULL,
			date_found        TEXT NOT NULL,
			est_monthly_cost  TEXT NOT NULL DEFAULT '',
			suitability_score TEXT NOT NULL DEFAULT '',
			notes             TEXT NOT NULL DEFAULT '',
			followed_up       TEXT NOT NULL DEFAULT '',
			who               TEXT NOT NULL DEFAULT '',
			human_notes       TEXT NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS rejected_listings (
			id                SERIAL PRIMARY KEY,
			title             TEXT NOT NULL DEFAULT '',
			price             TEXT NOT NULL DEFAULT '',
			sqft              TEXT NOT NULL DEFAULT '',
			address           TEXT NOT NULL DEFAULT '',
			link              TEXT NOT NULL,
			date_found        TEXT NOT NULL,
			est_monthly_cost  TEXT NOT NULL DEFAULT '',
			suitability_score TEXT NOT NULL DEFAULT '',
			notes             TEXT NOT NULL DEFAULT '',
			reviewed_by       TEXT NOT NULL DEFAULT '',
			human_notes       TEXT NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_approved_link ON approved_listings(link);
		CREATE INDEX IF NOT EXISTS idx_rejected_link ON rejected_listings(link);
	`)
	return err
}

// LoadSeen returns the union of links in both tables.
func (ps *PostgresStore) LoadSeen(ctx context.Context) (*models.SeenSet, error) {
	var links []string
	err := ps.db.SelectContext(ctx, &links, `
		SELECT link FROM approved_listings
		UNION
		SELECT link FROM rejected_listings
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load seen links: %w", err)
	}
	return models.NewSeenSet(links...), nil
}

const insertColumns = `(title, price, sqft, address, link, date_found, est_monthly_cost, suitability_score, notes)
	VALUES (:title, :price, :sqft, :address, :link, :date_found, :est_monthly_cost, :suitability_score, :notes)`

func (ps *PostgresStore) AppendApproved(ctx context.Context, rec Record) error {
	if _, err := ps.db.NamedExecContext(ctx, "INSERT INTO approved_listings "+insertColumns, recordArgs(rec)); err != nil {
		return fmt.Errorf("postgres: append approved: %w", err)
	}
	return nil
}

func (ps *PostgresStore) AppendRejected(ctx context.Context, rec Record) error {
	if _, err := ps.db.NamedExecContext(ctx, "INSERT INTO rejected_listings "+insertColumns, recordArgs(rec)); err != nil {
		return fmt.Errorf("postgres: append rejected: %w", err)
	}
	return nil
}

func recordArgs(rec Record) map[string]interface{} {
	return map[string]interface{}{
		"title":             rec.Title,
		"price":             rec.Price,
		"sqft":              rec.Sqft,
		"address":           rec.Address,
		"link":              rec.Link,
		"date_found":        rec.DateFound,
		"est_monthly_cost":  rec.EstMonthlyCost,
		"suitability_score": rec.SuitabilityScore,
		"notes":             rec.Notes,
	}
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
