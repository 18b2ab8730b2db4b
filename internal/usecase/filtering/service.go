package filtering

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// EmptyPolicy decides what an empty compiled filter means.
type EmptyPolicy string

const (
	// MatchAll sends the empty filter to the store and returns every record.
	MatchAll EmptyPolicy = "match_all"
	// NoResults returns an empty list without calling the store.
	NoResults EmptyPolicy = "no_results"
)

// ParseEmptyPolicy validates a configured policy name. "" means MatchAll.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch EmptyPolicy(s) {
	case "", MatchAll:
		return MatchAll, nil
	case NoResults:
		return NoResults, nil
	}
	return "", fmt.Errorf("unknown empty criteria policy %q (want %s or %s)", s, MatchAll, NoResults)
}

// Explanation is what a filtering call would send to the store.
type Explanation struct {
	Criteria criteria.Normalized
	Filter   filter.Expression
	// SkipsStore is true when the empty policy short-circuits the store call.
	SkipsStore bool
}

// Service normalizes criteria, compiles them and queries the repository.
type Service struct {
	repo     Repository
	compiler *Compiler
	policy   EmptyPolicy
}

// New creates a filtering service. A nil compiler uses the defaults.
func New(repo Repository, compiler *Compiler, policy EmptyPolicy) *Service {
	if compiler == nil {
		compiler = NewCompiler()
	}
	if policy == "" {
		policy = MatchAll
	}
	return &Service{repo: repo, compiler: compiler, policy: policy}
}

// Explain normalizes and compiles raw without touching the store.
func (s *Service) Explain(raw criteria.Raw) Explanation {
	n := criteria.Normalize(raw)
	expr := s.compiler.Compile(n)
	return Explanation{
		Criteria:   n,
		Filter:     expr,
		SkipsStore: expr.IsEmpty() && s.policy == NoResults,
	}
}

// Filter returns the records matching raw, each with its logo.
func (s *Service) Filter(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error) {
	_, records, err := s.FilterExplained(ctx, raw)
	return records, err
}

// FilterExplained is Filter that also returns the explanation it acted on.
// raw is normalized and compiled once.
func (s *Service) FilterExplained(ctx context.Context, raw criteria.Raw) (Explanation, []insurance.Record, error) {
	e := s.Explain(raw)
	if e.SkipsStore {
		return e, []insurance.Record{}, nil
	}

	records, err := s.repo.FindMatching(ctx, insurance.Query{Filter: e.Filter, IncludeLogo: true})
	if err != nil {
		return e, nil, fmt.Errorf("find matching insurances: %w", err)
	}
	return e, records, nil
}
