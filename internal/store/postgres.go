package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/budget-cli/internal/db"
	"github.com/sells-group/budget-cli/pkg/census"
)

// PostgresStore implements ACSCache on a pgx pool.
type PostgresStore struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgres wraps an open pool. Close closes the pool.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS acs_observations (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	zip_code      TEXT NOT NULL UNIQUE,
	median_income DOUBLE PRECISION,
	median_rent   DOUBLE PRECISION,
	population    INTEGER,
	fetched_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_acs_observations_expires_at ON acs_observations(expires_at);
`

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

// Migrate creates the observations table and its expiry index.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// GetObservation returns the unexpired observation for zip, or nil on a miss.
func (s *PostgresStore) GetObservation(ctx context.Context, zip string) (*census.Observation, error) {
	var obs census.Observation
	err := s.pool.QueryRow(ctx,
		`SELECT zip_code, median_income, median_rent, population, fetched_at
		 FROM acs_observations WHERE zip_code = $1 AND expires_at > $2`,
		strings.TrimSpace(zip), s.now().UTC(),
	).Scan(&obs.ZipCode, &obs.MedianIncome, &obs.MedianRent, &obs.Population, &obs.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get observation")
	}
	return &obs, nil
}

// SetObservation upserts obs, expiring ttl from now.
func (s *PostgresStore) SetObservation(ctx context.Context, obs *census.Observation, ttl time.Duration) error {
	if obs == nil || obs.ZipCode == "" {
		return eris.New("postgres: observation has no zip code")
	}
	fetched := obs.FetchedAt
	if fetched.IsZero() {
		fetched = s.now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO acs_observations (id, zip_code, median_income, median_rent, population, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (zip_code) DO UPDATE SET
			median_income = EXCLUDED.median_income,
			median_rent = EXCLUDED.median_rent,
			population = EXCLUDED.population,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at`,
		uuid.New().String(), obs.ZipCode, obs.MedianIncome, obs.MedianRent, obs.Population,
		fetched.UTC(), s.now().UTC().Add(ttl),
	)
	return eris.Wrap(err, "postgres: set observation")
}

// DeleteObservation removes the observation for zip.
func (s *PostgresStore) DeleteObservation(ctx context.Context, zip string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM acs_observations WHERE zip_code = $1`, strings.TrimSpace(zip))
	return eris.Wrap(err, "postgres: delete observation")
}

// DeleteAllObservations removes every observation and returns the count.
func (s *PostgresStore) DeleteAllObservations(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM acs_observations`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete all observations")
	}
	return int(tag.RowsAffected()), nil
}

// DeleteExpired removes observations past their expiry and returns the count.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM acs_observations WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired observations")
	}
	return int(tag.RowsAffected()), nil
}

// CountObservations returns the number of stored observations, expired included.
func (s *PostgresStore) CountObservations(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM acs_observations`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count observations")
}
