package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/budget-cli/internal/config"
	"github.com/sells-group/budget-cli/pkg/census"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testObservation(zip string, income, rent float64, pop int) *census.Observation {
	return &census.Observation{
		ZipCode:      zip,
		MedianIncome: &income,
		MedianRent:   &rent,
		Population:   &pop,
		FetchedAt:    time.Now().UTC(),
	}
}

func TestSQLite_SetGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	obs := testObservation("10003", 98000, 2100, 55000)
	require.NoError(t, s.SetObservation(ctx, obs, time.Hour))

	got, err := s.GetObservation(ctx, " 10003 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10003", got.ZipCode)
	require.NotNil(t, got.MedianIncome)
	assert.InDelta(t, 98000, *got.MedianIncome, 0.001)
	assert.InDelta(t, 2100, *got.MedianRent, 0.001)
	assert.Equal(t, 55000, *got.Population)
	assert.WithinDuration(t, obs.FetchedAt, got.FetchedAt, time.Second)
}

func TestSQLite_Miss(t *testing.T) {
	s := newTestSQLite(t)
	got, err := s.GetObservation(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_NullFieldsRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetObservation(ctx, &census.Observation{ZipCode: "50309"}, time.Hour))

	got, err := s.GetObservation(ctx, "50309")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.MedianIncome)
	assert.Nil(t, got.MedianRent)
	assert.Nil(t, got.Population)
	assert.False(t, got.FetchedAt.IsZero())
}

func TestSQLite_UpsertReplaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetObservation(ctx, testObservation("10003", 1, 1, 1), time.Hour))
	require.NoError(t, s.SetObservation(ctx, testObservation("10003", 2, 2, 2), time.Hour))

	got, err := s.GetObservation(ctx, "10003")
	require.NoError(t, err)
	assert.InDelta(t, 2, *got.MedianIncome, 0.001)

	n, err := s.CountObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_Expiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SetObservation(ctx, testObservation("10003", 1, 1, 1), time.Hour))
	require.NoError(t, s.SetObservation(ctx, testObservation("10004", 1, 1, 1), 3*time.Hour))

	now = now.Add(2 * time.Hour)

	got, err := s.GetObservation(ctx, "10003")
	require.NoError(t, err)
	assert.Nil(t, got, "expired rows are misses")

	got, err = s.GetObservation(ctx, "10004")
	require.NoError(t, err)
	assert.NotNil(t, got)

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.CountObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLite_Delete(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, z := range []string{"10001", "10002", "10003"} {
		require.NoError(t, s.SetObservation(ctx, testObservation(z, 1, 1, 1), time.Hour))
	}

	require.NoError(t, s.DeleteObservation(ctx, "10002"))
	got, err := s.GetObservation(ctx, "10002")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.DeleteAllObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := s.CountObservations(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLite_SetRequiresZip(t *testing.T) {
	s := newTestSQLite(t)
	err := s.SetObservation(context.Background(), &census.Observation{}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no zip code")

	assert.Error(t, s.SetObservation(context.Background(), nil, time.Hour))
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()
	n, err := s.CountObservations(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = Open(ctx, config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
