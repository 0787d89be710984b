// Package store persists Census observations between runs so repeated
// lookups of the same ZIP skip the network.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/config"
	"github.com/sells-group/budget-cli/internal/db"
	"github.com/sells-group/budget-cli/pkg/census"
)

// ACSCache is a TTL cache of raw ACS observations keyed by ZIP code.
type ACSCache interface {
	// GetObservation returns the unexpired observation for zip, or nil
	// without error on a miss.
	GetObservation(ctx context.Context, zip string) (*census.Observation, error)
	SetObservation(ctx context.Context, obs *census.Observation, ttl time.Duration) error
	DeleteObservation(ctx context.Context, zip string) error
	DeleteAllObservations(ctx context.Context) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
	CountObservations(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the cache selected by cfg.Driver, migrated and ready. The
// "none" driver returns a nil cache and no error.
func Open(ctx context.Context, cfg config.StoreConfig) (ACSCache, error) {
	var (
		s   ACSCache
		err error
	)
	switch cfg.Driver {
	case "none", "":
		return nil, nil
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		var pool db.Pool
		pool, err = db.Connect(ctx, cfg.DatabaseURL, db.PoolConfig{})
		if err == nil {
			s = NewPostgres(pool)
		}
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	zap.L().Debug("store opened", zap.String("driver", cfg.Driver))
	return s, nil
}
