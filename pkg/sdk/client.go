package insurefilter

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/insurefilter/internal/backend"
	"github.com/kailas-cloud/insurefilter/internal/config"
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	insurancerepo "github.com/kailas-cloud/insurefilter/internal/repository/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
	healthuc "github.com/kailas-cloud/insurefilter/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type filterUseCase interface {
	Filter(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error)
	Explain(raw criteria.Raw) filteringuc.Explanation
}

type recordStore interface {
	UpsertMany(ctx context.Context, records []insurance.Record) error
	Count(ctx context.Context) (int, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the insurefilter SDK entry point.
type Client struct {
	filterSvc filterUseCase
	records   recordStore
	pinger    pinger
	healthSvc healthUseCase
	closeFn   func()
	obs       *observer
}

// New creates a Client and connects to the configured store.
// The provided context is used for the readiness check and the initial upsert.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:        config.DriverMemory,
		keyPrefix:     "insurefilter:",
		maxResults:    insurancerepo.DefaultMaxResults,
		emptyCriteria: MatchAll,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	policy, err := filteringuc.ParseEmptyPolicy(string(cfg.emptyCriteria))
	if err != nil {
		return nil, fmt.Errorf("insurefilter: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	be, err := backend.Open(ctx, config.DatabaseConfig{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		DSN:              cfg.dsn,
		ReadinessTimeout: int(defaultReadinessTimeout / time.Second),
	}, config.StorageConfig{
		KeyPrefix:  cfg.keyPrefix,
		MaxResults: cfg.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("insurefilter: %w", err)
	}

	compiler := filteringuc.NewCompiler(filteringuc.WithLegacyAgeAround(cfg.legacyAgeAround))
	c := &Client{
		filterSvc: filteringuc.New(be.Repo, compiler, policy),
		records:   be.Repo,
		pinger:    be.Pinger,
		healthSvc: healthuc.New(be.Pinger, be.Driver),
		closeFn:   be.Close,
		obs:       obs,
	}

	if len(cfg.records) > 0 {
		if err := c.Upsert(ctx, cfg.records...); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { c.obs.observe("ping", start, err) }(time.Now())
	if err := c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("insurefilter: ping: %w", err)
	}
	return nil
}

// Filter returns the records matching raw criteria, each with its logo.
func (c *Client) Filter(ctx context.Context, raw Criteria) (records []Record, err error) {
	defer func(start time.Time) { c.obs.observeFilter(start, len(records), err) }(time.Now())
	records, err = c.filterSvc.Filter(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("insurefilter: %w", err)
	}
	return records, nil
}

// Explain reports how raw criteria are interpreted, without touching the store.
func (c *Client) Explain(raw Criteria) Explanation {
	e := c.filterSvc.Explain(raw)
	return Explanation{
		Criteria:     e.Criteria,
		Filter:       e.Filter.String(),
		ClauseGroups: filteringuc.ClauseGroups(e.Filter),
		SkipsStore:   e.SkipsStore,
	}
}

// Upsert validates and stores records. Existing IDs are overwritten.
func (c *Client) Upsert(ctx context.Context, records ...Record) (err error) {
	defer func(start time.Time) { c.obs.observe("upsert", start, err) }(time.Now())
	if err := c.records.UpsertMany(ctx, records); err != nil {
		return fmt.Errorf("insurefilter: upsert: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (c *Client) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { c.obs.observe("count", start, err) }(time.Now())
	n, err = c.records.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("insurefilter: count: %w", err)
	}
	return n, nil
}
