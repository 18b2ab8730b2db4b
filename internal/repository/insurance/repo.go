// Package insurance stores and searches insurance records.
package insurance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/insurefilter/internal/db"
	"github.com/kailas-cloud/insurefilter/internal/domain"
	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// DefaultMaxResults caps a single FindMatching call when no limit is configured.
const DefaultMaxResults = 1000

// store is the consumer interface for insurance hashes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string) error
	SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/filtering.Repository over a Redis/Valkey search index.
type Repo struct {
	store      store
	prefix     string
	maxResults int
}

// New creates an insurance repository. prefix namespaces keys and the index.
func New(s store, prefix string, maxResults int) *Repo {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Repo{store: s, prefix: prefix, maxResults: maxResults}
}

// EnsureIndex creates the search index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(name, r.keyPrefix())
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// DropIndex removes the search index. Stored hashes are kept.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return fmt.Errorf("drop index %s: %w", r.indexName(), err)
	}
	return nil
}

// UpsertMany validates and writes records in one pipeline.
func (r *Repo) UpsertMany(ctx context.Context, records []dominsurance.Record) error {
	if len(records) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(records))
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w: %w", i, domain.ErrInvalidRecord, err)
		}
		items = append(items, db.HashSetItem{
			Key:    r.recordKey(rec.ID),
			Fields: buildHashFields(rec),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d records: %w", len(items), err)
	}
	return nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (dominsurance.Record, error) {
	key := r.recordKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dominsurance.Record{}, domain.ErrNotFound
		}
		return dominsurance.Record{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, m)
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.recordKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of indexed records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", r.indexName(), err)
	}
	return n, nil
}

// FindMatching runs a single FT.SEARCH for the filter and maps hits to records.
func (r *Repo) FindMatching(ctx context.Context, q dominsurance.Query) ([]dominsurance.Record, error) {
	result, err := r.store.SearchFilter(ctx, &db.FilterQuery{
		IndexName:    r.indexName(),
		Filter:       q.Filter,
		Limit:        r.maxResults,
		ReturnFields: returnFields(q.IncludeLogo),
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("search %s: %w: %w", r.indexName(), domain.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("search %s: %w", r.indexName(), err)
	}
	if result == nil {
		return []dominsurance.Record{}, nil
	}

	records := make([]dominsurance.Record, 0, len(result.Entries))
	for _, entry := range result.Entries {
		rec, err := parseHashFields(r.extractID(entry.Key), entry.Fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Repo) keyPrefix() string {
	return r.prefix + "insurance:"
}

func (r *Repo) recordKey(id string) string {
	return r.keyPrefix() + id
}

func (r *Repo) indexName() string {
	return r.prefix + "insurance:idx"
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix())
}
