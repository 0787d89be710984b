package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/budget-cli/pkg/census"
)

// SQLiteStore implements ACSCache using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection; one connection also serializes writers.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS acs_observations (
	id            TEXT PRIMARY KEY,
	zip_code      TEXT NOT NULL UNIQUE,
	median_income REAL,
	median_rent   REAL,
	population    INTEGER,
	fetched_at    DATETIME NOT NULL,
	expires_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_acs_observations_expires_at ON acs_observations(expires_at);
`

// Migrate creates the observations table and its expiry index.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetObservation returns the unexpired observation for zip, or nil on a miss.
func (s *SQLiteStore) GetObservation(ctx context.Context, zip string) (*census.Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT zip_code, median_income, median_rent, population, fetched_at
		 FROM acs_observations WHERE zip_code = ? AND expires_at > ?`,
		strings.TrimSpace(zip), s.now().UTC(),
	)

	var (
		obs    census.Observation
		income sql.NullFloat64
		rent   sql.NullFloat64
		pop    sql.NullInt64
	)
	err := row.Scan(&obs.ZipCode, &income, &rent, &pop, &obs.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get observation")
	}
	if income.Valid {
		obs.MedianIncome = &income.Float64
	}
	if rent.Valid {
		obs.MedianRent = &rent.Float64
	}
	if pop.Valid {
		n := int(pop.Int64)
		obs.Population = &n
	}
	return &obs, nil
}

// SetObservation upserts obs, expiring ttl from now.
func (s *SQLiteStore) SetObservation(ctx context.Context, obs *census.Observation, ttl time.Duration) error {
	if obs == nil || obs.ZipCode == "" {
		return eris.New("sqlite: observation has no zip code")
	}
	fetched := obs.FetchedAt
	if fetched.IsZero() {
		fetched = s.now()
	}
	fetched = fetched.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO acs_observations (id, zip_code, median_income, median_rent, population, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (zip_code) DO UPDATE SET
			median_income = excluded.median_income,
			median_rent = excluded.median_rent,
			population = excluded.population,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		uuid.New().String(), obs.ZipCode, nullFloat(obs.MedianIncome), nullFloat(obs.MedianRent), nullInt(obs.Population),
		fetched, s.now().UTC().Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set observation")
}

// DeleteObservation removes the observation for zip.
func (s *SQLiteStore) DeleteObservation(ctx context.Context, zip string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM acs_observations WHERE zip_code = ?`, strings.TrimSpace(zip))
	return eris.Wrap(err, "sqlite: delete observation")
}

// DeleteAllObservations removes every observation and returns the count.
func (s *SQLiteStore) DeleteAllObservations(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM acs_observations`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete all observations")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// DeleteExpired removes observations past their expiry and returns the count.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM acs_observations WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired observations")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// CountObservations returns the number of stored observations, expired included.
func (s *SQLiteStore) CountObservations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM acs_observations`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count observations")
}

// nullFloat and nullInt map missing values to SQL NULL.
func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
