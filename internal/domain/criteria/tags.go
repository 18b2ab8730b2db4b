package criteria

import "github.com/kailas-cloud/insurefilter/internal/domain/enum"

// Comparison is the open-ended comparison of a range tag.
type Comparison string

// Comparisons.
const (
	Over   Comparison = "over"
	Less   Comparison = "less"
	Around Comparison = "around"
)

// Bound is the bound kind of a min/max tag.
type Bound string

// Bounds.
const (
	Max Bound = "max"
	Min Bound = "min"
	Mid Bound = "mid"
)

// Dimension is the measured axis a tag targets.
type Dimension string

// Dimensions.
const (
	Price      Dimension = "price"
	Age        Dimension = "age"
	PriceIndex Dimension = "priceIndex"
)

var (
	comparisons = enum.MustSet(
		enum.Member[Comparison]{Value: Over, Label: "over"},
		enum.Member[Comparison]{Value: Less, Label: "less"},
		enum.Member[Comparison]{Value: Around, Label: "around"},
	)
	bounds = enum.MustSet(
		enum.Member[Bound]{Value: Max, Label: "max"},
		enum.Member[Bound]{Value: Min, Label: "min"},
		enum.Member[Bound]{Value: Mid, Label: "mid"},
	)
	dimensions = enum.MustSet(
		enum.Member[Dimension]{Value: Price, Label: "price"},
		enum.Member[Dimension]{Value: Age, Label: "age"},
		enum.Member[Dimension]{Value: PriceIndex, Label: "priceIndex"},
	)
)

// RangeTag is a resolved (comparison, dimension) pair.
// An absent comparison makes the tag a no-op.
type RangeTag struct {
	Comparison Optional[Comparison] `json:"comparison"`
	Dimension  Dimension            `json:"dimension"`
}

// MinMaxTag is a resolved (bound, dimension) pair.
// An absent bound makes the tag a no-op.
type MinMaxTag struct {
	Bound     Optional[Bound] `json:"bound"`
	Dimension Dimension       `json:"dimension"`
}
