package insurance

import (
	"context"
	"testing"

	"github.com/kailas-cloud/insurefilter/internal/db"
	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	dropIndexFn    func(ctx context.Context, name string) error
	searchFilterFn func(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error) {
	if m.searchFilterFn != nil {
		return m.searchFilterFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "test:", 50), ms
}

func testRecord(id string) dominsurance.Record {
	return dominsurance.Record{
		ID:                     id,
		ProductName:            "무배당 암보험",
		CompanyName:            "SAMSUNG_LIFE",
		RegistrationType:       dominsurance.RegistrationOnline,
		InsuranceType:          "CANCER",
		PremiumMale:            32000,
		PremiumFemale:          28500.5,
		InsuranceAgeGroup:      30,
		InsuranceAgeGroupStart: 20,
		InsuranceAgeGroupEnd:   40,
		PriceIndex:             12.5,
		Logo:                   &dominsurance.Logo{ID: "logo-1", Name: "samsung", URL: "https://cdn.example.com/samsung.png"},
	}
}
