package insurefilter

import (
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// Record is a single insurance product.
type Record = insurance.Record

// Logo is the image attached to a record.
type Logo = insurance.Logo

// Criteria is the raw, label-based search input.
type Criteria = criteria.Raw

// Label is a single display label such as a gender or registration type.
type Label = criteria.Label

// Labels is a list of display labels. It decodes from a single JSON string too.
type Labels = criteria.Labels

// Tag is a raw [kind, dimension] tag such as ["over", "price"].
type Tag = criteria.RawTag

// Tags is a list of raw tags.
type Tags = criteria.RawTags

// NewTag builds a raw tag.
func NewTag(kind, dimension string) Tag { return criteria.NewRawTag(kind, dimension) }

// NormalizedCriteria is Criteria with every label resolved to its stored key.
type NormalizedCriteria = criteria.Normalized

// EmptyCriteria decides what a filter that compiles to nothing returns.
type EmptyCriteria string

// Empty-criteria policies.
const (
	// MatchAll returns every stored record.
	MatchAll EmptyCriteria = "match_all"
	// NoResults returns an empty list without querying the store.
	NoResults EmptyCriteria = "no_results"
)

// Explanation shows how criteria were interpreted.
type Explanation struct {
	Criteria NormalizedCriteria
	// Filter is the compiled tree, e.g. AND(OR(companyName == KB_LIFE), premiumMale >= 30000).
	Filter       string
	ClauseGroups int
	SkipsStore   bool
}
