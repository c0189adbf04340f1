package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists interest profiles in PostgreSQL, one row per
// profile name. Selected when DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the profiles table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS interest_profiles (
			name text PRIMARY KEY,
			interests jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure interest_profiles table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Load returns the interests stored under name, or an empty list when the
// profile does not exist.
func (s *PostgresStore) Load(ctx context.Context, name string) ([]string, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT interests FROM interest_profiles WHERE name = $1`, name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", name, err)
	}

	var interests []string
	if err := json.Unmarshal(raw, &interests); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", name, err)
	}
	return interests, nil
}

// Save upserts the interests stored under name.
func (s *PostgresStore) Save(ctx context.Context, name string, interests []string) error {
	raw, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO interest_profiles (name, interests)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET interests = $2, updated_at = now()`,
		name, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", name, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
