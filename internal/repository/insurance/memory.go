package insurance

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/insurefilter/internal/db"
	"github.com/kailas-cloud/insurefilter/internal/db/memory"
	"github.com/kailas-cloud/insurefilter/internal/domain"
	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// MemorySchema declares the insurance filter fields for the CEL store.
var MemorySchema = memory.Schema{
	Tags:     dominsurance.TagFields,
	Numerics: dominsurance.NumericFields,
}

// memStore is the consumer interface for the in-memory backend (ISP).
type memStore interface {
	Put(docs ...memory.Document) error
	Get(key string) (memory.Document, error)
	Len() int
	Search(ctx context.Context, expr filter.Expression, limit int) ([]memory.Document, error)
}

// MemoryRepo implements usecase/filtering.Repository over an in-process CEL store.
type MemoryRepo struct {
	store      memStore
	maxResults int
}

// NewMemory creates an in-memory insurance repository.
func NewMemory(s memStore, maxResults int) *MemoryRepo {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &MemoryRepo{store: s, maxResults: maxResults}
}

// UpsertMany validates and stores records.
func (r *MemoryRepo) UpsertMany(_ context.Context, records []dominsurance.Record) error {
	docs := make([]memory.Document, 0, len(records))
	for i := range records {
		rec := records[i]
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w: %w", i, domain.ErrInvalidRecord, err)
		}
		docs = append(docs, toDocument(rec))
	}
	if err := r.store.Put(docs...); err != nil {
		return fmt.Errorf("put %d records: %w", len(docs), err)
	}
	return nil
}

// Get returns a record by ID.
func (r *MemoryRepo) Get(_ context.Context, id string) (dominsurance.Record, error) {
	d, err := r.store.Get(id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dominsurance.Record{}, domain.ErrNotFound
		}
		return dominsurance.Record{}, err
	}
	rec, _ := d.Payload.(dominsurance.Record)
	return rec, nil
}

// Count returns the number of stored records.
func (r *MemoryRepo) Count(_ context.Context) (int, error) {
	return r.store.Len(), nil
}

// FindMatching evaluates the filter against every stored record.
func (r *MemoryRepo) FindMatching(ctx context.Context, q dominsurance.Query) ([]dominsurance.Record, error) {
	docs, err := r.store.Search(ctx, q.Filter, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("evaluate filter: %w", err)
	}
	records := make([]dominsurance.Record, 0, len(docs))
	for _, d := range docs {
		rec, ok := d.Payload.(dominsurance.Record)
		if !ok {
			return nil, fmt.Errorf("document %s: unexpected payload %T", d.Key, d.Payload)
		}
		if !q.IncludeLogo {
			rec.Logo = nil
		} else if rec.Logo != nil {
			logo := *rec.Logo
			rec.Logo = &logo
		}
		records = append(records, rec)
	}
	return records, nil
}

func toDocument(rec dominsurance.Record) memory.Document {
	tags := make(map[string]string, len(dominsurance.TagFields))
	for _, f := range dominsurance.TagFields {
		if v, ok := rec.Tag(f); ok {
			tags[f] = v
		}
	}
	nums := make(map[string]float64, len(dominsurance.NumericFields))
	for _, f := range dominsurance.NumericFields {
		if v, ok := rec.Numeric(f); ok {
			nums[f] = v
		}
	}
	if rec.Logo != nil {
		logo := *rec.Logo
		rec.Logo = &logo
	}
	return memory.Document{Key: rec.ID, Tags: tags, Numerics: nums, Payload: rec}
}
