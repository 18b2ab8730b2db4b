package filtering

import (
	"context"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// Repository is the store collaborator: one "find matching records" call per request.
type Repository interface {
	FindMatching(ctx context.Context, q insurance.Query) ([]insurance.Record, error)
}

// Filterer is implemented by Service and its instrumented wrapper.
type Filterer interface {
	Filter(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error)
	Explain(raw criteria.Raw) Explanation
}

// ExplainingFilterer filters and reports the explanation of the same call.
type ExplainingFilterer interface {
	Filterer
	FilterExplained(ctx context.Context, raw criteria.Raw) (Explanation, []insurance.Record, error)
}
