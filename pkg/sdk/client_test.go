package insurefilter

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/insurefilter/internal/domain"
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
)

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithRecords(
		testRecord("a", "SAMSUNG_LIFE", 32000),
		testRecord("b", "SAMSUNG_LIFE", 18000),
		testRecord("c", "KB_LIFE", 45000),
	)}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_MemoryFilter(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	got, err := c.Filter(ctx, Criteria{
		CompanyNames: Labels{"삼성생명"},
		Gender:       "man",
		Price:        "30000",
		RangeTags:    []Tag{NewTag("over", "price")},
	})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Filter = %+v, want only a", got)
	}
	if got[0].Logo == nil || got[0].Logo.ID != "logo-a" {
		t.Errorf("logo = %+v", got[0].Logo)
	}

	n, err := c.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if h := c.Health(ctx); h.Status != "ok" || h.Checks["memory"] != "ok" {
		t.Errorf("Health = %+v", h)
	}
}

func TestNew_EmptyCriteriaPolicy(t *testing.T) {
	ctx := context.Background()

	all, err := newMemoryClient(t).Filter(ctx, Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("match_all returned %d records, want 3", len(all))
	}

	none, err := newMemoryClient(t, WithEmptyCriteria(NoResults)).Filter(ctx, Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("no_results returned %v, want empty non-nil slice", none)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"bad policy", []Option{WithEmptyCriteria("everything")}},
		{"invalid record", []Option{WithRecords(Record{ID: "x", CompanyName: "NOPE"})}},
		{"postgres without dsn", []Option{WithPostgres("")}},
		{"redis without addr", []Option{optionFunc(func(c *clientConfig) { c.driver = "redis" })}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_InvalidRecordIsTyped(t *testing.T) {
	_, err := New(context.Background(), WithRecords(Record{ID: "x", CompanyName: "NOPE"}))
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	c := newMemoryClient(t, WithLegacyAgeAround(true))

	e := c.Explain(Criteria{
		Age:       "30",
		Price:     "100",
		RangeTags: []Tag{NewTag("around", "age")},
	})
	if e.Filter != "AND(OR(insuranceAgeGroup >= 25 && <= 105))" {
		t.Errorf("Filter = %q", e.Filter)
	}
	if e.ClauseGroups != 1 {
		t.Errorf("ClauseGroups = %d, want 1", e.ClauseGroups)
	}
	if e.SkipsStore {
		t.Error("SkipsStore = true")
	}
	if age, ok := e.Criteria.Age.Get(); !ok || age != 30 {
		t.Errorf("age = %v, %v", age, ok)
	}
}

func TestClient_FilterWrapsErrors(t *testing.T) {
	c := testClient(&mockFilterUC{
		filterFn: func(_ context.Context, _ criteria.Raw) ([]insurance.Record, error) {
			return nil, domain.ErrStoreUnavailable
		},
	}, nil, nil)

	_, err := c.Filter(context.Background(), Criteria{})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestClient_ExplainDelegates(t *testing.T) {
	var got criteria.Raw
	c := testClient(&mockFilterUC{
		explainFn: func(raw criteria.Raw) filteringuc.Explanation {
			got = raw
			return filteringuc.Explanation{SkipsStore: true}
		},
	}, nil, nil)

	e := c.Explain(Criteria{Gender: "woman"})
	if got.Gender != "woman" {
		t.Errorf("raw not forwarded: %+v", got)
	}
	if !e.SkipsStore || e.Filter != "*" || e.ClauseGroups != 0 {
		t.Errorf("Explain = %+v", e)
	}
}

func TestClient_StoreErrors(t *testing.T) {
	boom := errors.New("boom")
	c := testClient(nil, &mockRecords{
		upsertFn: func(_ context.Context, _ []insurance.Record) error { return boom },
		countFn:  func(_ context.Context) (int, error) { return 0, boom },
	}, &mockPinger{err: boom})
	ctx := context.Background()

	if err := c.Upsert(ctx, testRecord("a", "KB_LIFE", 1)); !errors.Is(err, boom) {
		t.Errorf("Upsert err = %v", err)
	}
	if _, err := c.Count(ctx); !errors.Is(err, boom) {
		t.Errorf("Count err = %v", err)
	}
	if err := c.Ping(ctx); !errors.Is(err, boom) {
		t.Errorf("Ping err = %v", err)
	}
	if h := c.Health(ctx); h.Status != "error" || h.Checks["mock"] != "error" {
		t.Errorf("Health = %+v", h)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithPostgres("postgres://localhost/insure").apply(cfg3)
	if cfg3.driver != "postgres" || cfg3.dsn != "postgres://localhost/insure" {
		t.Errorf("postgres = (%q, %q)", cfg3.driver, cfg3.dsn)
	}
	WithMemory().apply(cfg3)
	if cfg3.driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg3.driver)
	}

	WithKeyPrefix("app:").apply(cfg3)
	WithMaxResults(25).apply(cfg3)
	WithEmptyCriteria(NoResults).apply(cfg3)
	WithLegacyAgeAround(true).apply(cfg3)
	WithRecords(testRecord("a", "KB_LIFE", 1)).apply(cfg3)
	WithRecords(testRecord("b", "KB_LIFE", 1)).apply(cfg3)
	if cfg3.keyPrefix != "app:" || cfg3.maxResults != 25 {
		t.Errorf("storage = (%q, %d)", cfg3.keyPrefix, cfg3.maxResults)
	}
	if cfg3.emptyCriteria != NoResults || !cfg3.legacyAgeAround {
		t.Errorf("filtering = (%q, %v)", cfg3.emptyCriteria, cfg3.legacyAgeAround)
	}
	if len(cfg3.records) != 2 {
		t.Errorf("records = %d, want 2", len(cfg3.records))
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg5 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NoStore(t *testing.T) {
	c := &Client{}
	c.Close()
}

func TestClient_MetricsThroughFilter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newMemoryClient(t, WithPrometheus(reg))

	if _, err := c.Filter(context.Background(), Criteria{}); err != nil {
		t.Fatal(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() != "insurefilter_sdk_operations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "operation" && l.GetValue() == "filter" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("filter operation not counted")
	}
}

func TestClient_FilterOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newMemoryClient(t, WithPrometheus(reg))
	ctx := context.Background()

	if _, err := c.Filter(ctx, Criteria{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Filter(ctx, Criteria{CompanyNames: Labels{"한화생명"}}); err != nil {
		t.Fatal(err)
	}

	ops := c.obs.metrics.operations
	if v := testutil.ToFloat64(ops.WithLabelValues("filter", "match")); v != 1 {
		t.Errorf("filter/match = %f", v)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("filter", "no_match")); v != 1 {
		t.Errorf("filter/no_match = %f", v)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("filter", "ok")); v != 0 {
		t.Errorf("filter must not report ok, got %f", v)
	}
	if n := testutil.CollectAndCount(c.obs.metrics.records); n != 1 {
		t.Errorf("filter_records series = %d", n)
	}

	if _, err := c.Count(ctx); err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("count", "ok")); v != 1 {
		t.Errorf("count/ok = %f", v)
	}
}

func TestObserver_FilterError(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(slog.Default(), reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observeFilter(time.Now(), 0, errors.New("down"))

	if v := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("filter", "error")); v != 1 {
		t.Errorf("filter/error = %f", v)
	}
	if v := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("filter", "no_match")); v != 0 {
		t.Errorf("an error is not a no_match, got %f", v)
	}

	var none *observer
	none.observeFilter(time.Now(), 3, nil)
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("filter", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("filter", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "insurefilter_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("insurefilter_sdk_operations_total not found")
	}

	// A second client on the same registry reuses the collectors.
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}
