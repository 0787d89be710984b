package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/budget-cli/pkg/census"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgres(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS acs_observations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetObservation_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	income, rent, pop := 98000.0, 2100.0, 55000
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT zip_code, median_income, median_rent, population, fetched_at\s+FROM acs_observations WHERE zip_code = \$1 AND expires_at > \$2`).
		WithArgs("10003", pgxmock.AnyArg()).
		WillReturnRows(
			pgxmock.NewRows([]string{"zip_code", "median_income", "median_rent", "population", "fetched_at"}).
				AddRow("10003", &income, &rent, &pop, fetched),
		)

	got, err := s.GetObservation(context.Background(), "10003")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10003", got.ZipCode)
	require.NotNil(t, got.MedianIncome)
	assert.InDelta(t, 98000, *got.MedianIncome, 0.001)
	assert.InDelta(t, 2100, *got.MedianRent, 0.001)
	assert.Equal(t, 55000, *got.Population)
	assert.Equal(t, fetched, got.FetchedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetObservation_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM acs_observations`).
		WithArgs("99999", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetObservation(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetObservation_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM acs_observations`).
		WithArgs("10003", pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	_, err := s.GetObservation(context.Background(), "10003")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: get observation")
}

func TestPostgresStore_SetObservation_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	income := 75000.0
	obs := &census.Observation{ZipCode: "50309", MedianIncome: &income, FetchedAt: time.Now()}

	mock.ExpectExec(`ON CONFLICT \(zip_code\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), "50309", &income, (*float64)(nil), (*int)(nil), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SetObservation(context.Background(), obs, 24*time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetObservation_NoZip(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	err := s.SetObservation(context.Background(), &census.Observation{}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no zip code")
}

func TestPostgresStore_Deletes(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM acs_observations WHERE zip_code = \$1`).
		WithArgs("10003").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM acs_observations WHERE expires_at <= \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM acs_observations$`).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	require.NoError(t, s.DeleteObservation(ctx, " 10003 "))

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.DeleteAllObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM acs_observations`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	n, err := s.CountObservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
