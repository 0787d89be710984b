// Package demographics resolves a ZIP code into an AreaDemographics
// profile, cross-checking the provider's answer against nearby ZIP codes.
package demographics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/store"
	"github.com/sells-group/budget-cli/pkg/census"
)

// Source returns the raw ACS observation for a ZIP code. Any error means
// "no data for this ZIP".
type Source interface {
	Fetch(ctx context.Context, zip string) (*census.Observation, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, zip string) (*census.Observation, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, zip string) (*census.Observation, error) {
	return f(ctx, zip)
}

// StoreSource serves observations from a persistent cache before asking
// the wrapped source, and saves what the wrapped source returns. Cache
// failures are logged and never fail a fetch.
type StoreSource struct {
	next  Source
	cache store.ACSCache
	ttl   time.Duration
	log   *zap.Logger
}

// WithStore wraps next with cache. A nil cache returns next unchanged.
func WithStore(next Source, cache store.ACSCache, ttl time.Duration) Source {
	if cache == nil {
		return next
	}
	return &StoreSource{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   zap.L().With(zap.String("component", "store_source")),
	}
}

// Fetch implements Source.
func (s *StoreSource) Fetch(ctx context.Context, zip string) (*census.Observation, error) {
	obs, err := s.cache.GetObservation(ctx, zip)
	if err != nil {
		s.log.Warn("read stored observation", zap.String("zip", zip), zap.Error(err))
	}
	if obs != nil {
		s.log.Debug("stored observation hit", zap.String("zip", zip))
		return obs, nil
	}

	obs, err = s.next.Fetch(ctx, zip)
	if err != nil {
		return nil, err
	}
	if obs != nil {
		if err := s.cache.SetObservation(ctx, obs, s.ttl); err != nil {
			s.log.Warn("save observation", zap.String("zip", zip), zap.Error(err))
		}
	}
	return obs, nil
}
