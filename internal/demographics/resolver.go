package demographics

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/budget-cli/internal/model"
)

// Neighborer lists ZIP codes near a ZIP code.
type Neighborer interface {
	Neighbors(zip string) []string
}

const (
	defaultMaxNeighbors = 4
	defaultFetchTimeout = 10 * time.Second
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxNeighbors caps how many neighbors are fetched per resolution.
func WithMaxNeighbors(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.maxNeighbors = n
		}
	}
}

// WithFetchTimeout sets the deadline applied to each individual fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.fetchTimeout = d
		}
	}
}

// WithCache shares a cache between resolvers.
func WithCache(c *Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// Resolver turns ZIP codes into AreaDemographics. It is safe for
// concurrent use. Concurrent misses for the same ZIP each do the full
// fetch; the last one to finish wins the cache slot.
type Resolver struct {
	source       Source
	neighbors    Neighborer
	cache        *Cache
	maxNeighbors int
	fetchTimeout time.Duration
	log          *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(source Source, neighbors Neighborer, opts ...Option) *Resolver {
	r := &Resolver{
		source:       source,
		neighbors:    neighbors,
		cache:        NewCache(),
		maxNeighbors: defaultMaxNeighbors,
		fetchTimeout: defaultFetchTimeout,
		log:          zap.L().With(zap.String("component", "demographics")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the demographics for zip. It never fails: when no live
// data can be had it returns a deterministic estimate.
func (r *Resolver) Resolve(ctx context.Context, zip string) model.AreaDemographics {
	zip = strings.TrimSpace(zip)

	if d, ok := r.cache.Get(zip); ok {
		r.log.Debug("cache hit", zap.String("zip", zip))
		return d
	}

	zips := []string{zip}
	if r.neighbors != nil {
		near := r.neighbors.Neighbors(zip)
		if len(near) > r.maxNeighbors {
			near = near[:r.maxNeighbors]
		}
		zips = append(zips, near...)
	}

	samples := r.fetchAll(ctx, zips)
	d := r.combine(zip, samples)

	// Results computed under a cancelled context are not cached.
	if ctx.Err() == nil {
		r.cache.Put(zip, d)
	}
	return d
}

// Invalidate drops the cached result for zip.
func (r *Resolver) Invalidate(zip string) {
	r.cache.Clear(zip)
}

// InvalidateAll drops every cached result.
func (r *Resolver) InvalidateAll() {
	r.cache.ClearAll()
}

// ResolveMany resolves zips with at most limit resolutions in flight and
// returns results in input order.
func (r *Resolver) ResolveMany(ctx context.Context, zips []string, limit int) []model.AreaDemographics {
	if limit < 1 {
		limit = 1
	}
	out := make([]model.AreaDemographics, len(zips))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, zip := range zips {
		g.Go(func() error {
			out[i] = r.Resolve(ctx, zip)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// fetchAll fetches every ZIP concurrently and waits for all of them. A nil
// entry means that ZIP produced no data.
func (r *Resolver) fetchAll(ctx context.Context, zips []string) []*sample {
	out := make([]*sample, len(zips))

	// Plain errgroup.Group: one failure must not cancel the others.
	var g errgroup.Group
	for i, zip := range zips {
		g.Go(func() error {
			out[i] = r.fetchOne(ctx, zip)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Resolver) fetchOne(ctx context.Context, zip string) (s *sample) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("source panicked", zap.String("zip", zip), zap.Any("panic", p))
			s = nil
		}
	}()

	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	obs, err := r.source.Fetch(fctx, zip)
	if err != nil {
		r.log.Debug("fetch failed", zap.String("zip", zip), zap.Error(err))
		return nil
	}
	if obs == nil {
		return nil
	}
	v := normalize(obs)
	return &v
}

// combine turns the fetched samples (target first) into the final record.
func (r *Resolver) combine(zip string, samples []*sample) model.AreaDemographics {
	collected := make([]sample, 0, len(samples))
	for _, s := range samples {
		if s != nil {
			collected = append(collected, *s)
		}
	}

	if len(collected) == 0 {
		r.log.Info("no live data, using estimate", zap.String("zip", zip))
		return Estimate(zip)
	}

	var (
		final     sample
		source    model.DemographicsSource
		corrected bool
	)
	if samples[0] != nil {
		final, corrected = consensus(*samples[0], collected)
		source = model.SourceCensus
		if corrected {
			source = model.SourceConsensus
		}
	} else {
		// Target missing: stand in the neighbor mean, then check it against
		// the neighbors like any other target.
		proxy := mean(collected)
		final, corrected = consensus(proxy, append(collected, proxy))
		source = model.SourceNeighbors
	}

	if corrected {
		r.log.Info("consensus correction applied",
			zap.String("zip", zip),
			zap.Float64("rent", final.rent),
			zap.Int("samples", len(collected)),
		)
	}

	return model.AreaDemographics{
		ZipCode:                  zip,
		MedianMonthlyNetIncome:   monthlyNet(final.income),
		MedianMonthlyRent:        final.rent,
		RentPercentileVsNational: rentPercentile(final.rent),
		PopulationDensity:        populationDensity(final.population),
		CostOfLivingIndex:        costOfLivingIndex(final.rent),
		Source:                   source,
		Samples:                  len(collected),
	}
}
