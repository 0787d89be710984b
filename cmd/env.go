package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/area"
	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/demographics"
	"github.com/sells-group/budget-cli/internal/resilience"
	"github.com/sells-group/budget-cli/internal/store"
	"github.com/sells-group/budget-cli/pkg/census"
)

// areaEnv holds the pure, table-backed components.
type areaEnv struct {
	Classifier *area.Classifier
	Topology   *area.Topology
	Engine     *budget.Engine
}

func initAreas() (*areaEnv, error) {
	table, err := area.LoadTable(cfg.Area.TablePath)
	if err != nil {
		return nil, eris.Wrap(err, "load area table")
	}
	classifier := area.NewClassifier(table)
	return &areaEnv{
		Classifier: classifier,
		Topology:   area.NewTopology(table),
		Engine:     budget.NewEngine(classifier),
	}, nil
}

// resolveEnv adds everything demographics resolution needs. Callers should
// defer env.Close().
type resolveEnv struct {
	*areaEnv
	Store    store.ACSCache // nil when store.driver is none
	Census   *census.Client
	Resolver *demographics.Resolver
}

// Close releases the store.
func (e *resolveEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initResolver(ctx context.Context) (*resolveEnv, error) {
	if err := cfg.Validate("resolve"); err != nil {
		return nil, err
	}

	areas, err := initAreas()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	client := newCensusClient()
	source := demographics.WithStore(client, st, cfg.Store.TTL())
	resolver := demographics.NewResolver(source, areas.Topology,
		demographics.WithMaxNeighbors(cfg.Resolver.MaxNeighbors),
		demographics.WithFetchTimeout(cfg.Resolver.FetchTimeout()),
	)

	zap.L().Debug("resolver ready",
		zap.String("store", cfg.Store.Driver),
		zap.Int("max_neighbors", cfg.Resolver.MaxNeighbors),
		zap.Bool("census_key", cfg.Census.Key != ""),
	)

	return &resolveEnv{
		areaEnv:  areas,
		Store:    st,
		Census:   client,
		Resolver: resolver,
	}, nil
}

func newCensusClient() *census.Client {
	backoff := resilience.DefaultBackoff()
	backoff.Attempts = cfg.Census.MaxAttempts
	backoff.OnRetry = resilience.LogRetries("census")

	breakerCfg := resilience.NewBreakerConfig(cfg.Circuit.FailureThreshold, cfg.Circuit.ResetTimeoutSecs)
	breakerCfg.OnStateChange = func(from, to resilience.State) {
		zap.L().Warn("census circuit state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return census.NewClient(
		census.WithBaseURL(cfg.Census.BaseURL),
		census.WithYear(cfg.Census.Year),
		census.WithDataset(cfg.Census.Dataset),
		census.WithKey(cfg.Census.Key),
		census.WithRateLimit(cfg.Census.RateLimit),
		census.WithRetry(backoff),
		census.WithBreaker(resilience.NewBreaker(breakerCfg)),
	)
}

// openStore opens the configured store for maintenance commands.
func openStore(ctx context.Context) (store.ACSCache, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}
