package insurefilter

import "github.com/kailas-cloud/insurefilter/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidCriteria  = domain.ErrInvalidCriteria
	ErrInvalidRecord    = domain.ErrInvalidRecord
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)
