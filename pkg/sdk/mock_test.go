package insurefilter

import (
	"context"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
	healthuc "github.com/kailas-cloud/insurefilter/internal/usecase/health"
)

// --- filterUseCase mock ---

type mockFilterUC struct {
	filterFn  func(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error)
	explainFn func(raw criteria.Raw) filteringuc.Explanation
}

func (m *mockFilterUC) Filter(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error) {
	return m.filterFn(ctx, raw)
}

func (m *mockFilterUC) Explain(raw criteria.Raw) filteringuc.Explanation {
	return m.explainFn(raw)
}

// --- recordStore mock ---

type mockRecords struct {
	upsertFn func(ctx context.Context, records []insurance.Record) error
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockRecords) UpsertMany(ctx context.Context, records []insurance.Record) error {
	return m.upsertFn(ctx, records)
}

func (m *mockRecords) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

// --- pinger mock ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- helpers ---

func testClient(filterSvc filterUseCase, records recordStore, p *mockPinger) *Client {
	if p == nil {
		p = &mockPinger{}
	}
	return &Client{
		filterSvc: filterSvc,
		records:   records,
		pinger:    p,
		healthSvc: healthuc.New(p, "mock"),
	}
}

func testRecord(id string, company insurance.Company, premiumMale float64) Record {
	return Record{
		ID:                     id,
		ProductName:            "product " + id,
		CompanyName:            company,
		RegistrationType:       insurance.RegistrationOnline,
		PremiumMale:            premiumMale,
		PremiumFemale:          premiumMale - 1000,
		InsuranceAgeGroup:      30,
		InsuranceAgeGroupStart: 20,
		InsuranceAgeGroupEnd:   40,
		PriceIndex:             10,
		Logo:                   &Logo{ID: "logo-" + id, Name: string(company), URL: "https://cdn.example.com/" + id + ".png"},
	}
}
