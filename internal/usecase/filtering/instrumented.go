package filtering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	"github.com/kailas-cloud/insurefilter/internal/logger"
	"github.com/kailas-cloud/insurefilter/internal/metrics"
)

// Instrumented wraps an ExplainingFilterer with logging and Prometheus metrics.
type Instrumented struct {
	inner   ExplainingFilterer
	backend string
	logger  *zap.Logger
}

// NewInstrumented wraps inner. backend labels the duration histogram.
func NewInstrumented(inner ExplainingFilterer, backend string, log *zap.Logger) *Instrumented {
	if log == nil {
		log = zap.NewNop()
	}
	return &Instrumented{inner: inner, backend: backend, logger: log}
}

// Explain delegates to the wrapped Filterer.
func (i *Instrumented) Explain(raw criteria.Raw) Explanation {
	return i.inner.Explain(raw)
}

// Filter delegates, then records outcome, clause-groups and result size.
func (i *Instrumented) Filter(ctx context.Context, raw criteria.Raw) ([]insurance.Record, error) {
	_, records, err := i.FilterExplained(ctx, raw)
	return records, err
}

// FilterExplained delegates and records the same metrics as Filter.
func (i *Instrumented) FilterExplained(
	ctx context.Context, raw criteria.Raw,
) (Explanation, []insurance.Record, error) {
	start := time.Now()
	e, records, err := i.inner.FilterExplained(ctx, raw)
	duration := time.Since(start)
	metrics.FilterDuration.WithLabelValues(i.backend).Observe(duration.Seconds())

	groups := ClauseGroups(e.Filter)
	metrics.FilterClauseGroups.Observe(float64(groups))

	log := logger.FromContext(ctx, i.logger)
	if err != nil {
		metrics.FilterRequestsTotal.WithLabelValues("error").Inc()
		log.Error("Filtering failed",
			zap.String("backend", i.backend),
			zap.String("filter", e.Filter.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return e, nil, err
	}

	outcome := "match"
	switch {
	case e.SkipsStore:
		outcome = "skipped"
	case len(records) == 0:
		outcome = "no_match"
	}
	metrics.FilterRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.FilterRecordsReturned.Observe(float64(len(records)))

	log.Debug("Filtering done",
		zap.String("backend", i.backend),
		zap.String("filter", e.Filter.String()),
		zap.Int("clause_groups", groups),
		zap.Int("records", len(records)),
		zap.String("outcome", outcome),
		zap.Duration("duration", duration),
	)
	return e, records, nil
}
