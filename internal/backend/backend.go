// Package backend opens the configured insurance store.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/insurefilter/internal/config"
	"github.com/kailas-cloud/insurefilter/internal/db/memory"
	"github.com/kailas-cloud/insurefilter/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/insurefilter/internal/db/redis"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	insurancerepo "github.com/kailas-cloud/insurefilter/internal/repository/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
	healthuc "github.com/kailas-cloud/insurefilter/internal/usecase/health"
)

// Repository is what callers need from any insurance store.
type Repository interface {
	filteringuc.Repository
	UpsertMany(ctx context.Context, records []insurance.Record) error
	Count(ctx context.Context) (int, error)
}

// Backend bundles a repository with its connection.
type Backend struct {
	Repo   Repository
	Pinger healthuc.DBPinger
	Driver string
	close  func()
}

// Close releases the connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects the configured driver, waits until it answers and prepares
// the schema where the store needs one (the Redis/Valkey search index).
func Open(ctx context.Context, dbCfg config.DatabaseConfig, storage config.StorageConfig) (*Backend, error) {
	timeout := time.Duration(dbCfg.ReadinessTimeout) * time.Second

	switch dbCfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    dbCfg.Addrs,
			Password: dbCfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", dbCfg.Driver, err)
		}
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		repo := insurancerepo.New(store, storage.KeyPrefix, storage.MaxResults)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure index: %w", err)
		}
		return &Backend{Repo: repo, Pinger: store, Driver: dbCfg.Driver, close: store.Close}, nil

	case config.DriverPostgres:
		store, err := postgres.NewStore(postgres.Config{
			DSN:          dbCfg.DSN,
			MaxOpenConns: dbCfg.MaxOpenConns,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		repo := insurancerepo.NewSQL(store, storage.MaxResults)
		return &Backend{Repo: repo, Pinger: store, Driver: dbCfg.Driver, close: store.Close}, nil

	case config.DriverMemory:
		store, err := memory.NewStore(insurancerepo.MemorySchema)
		if err != nil {
			return nil, fmt.Errorf("create memory store: %w", err)
		}
		repo := insurancerepo.NewMemory(store, storage.MaxResults)
		return &Backend{Repo: repo, Pinger: store, Driver: dbCfg.Driver, close: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
}
