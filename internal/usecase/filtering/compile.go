package filtering

import (
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// Spreads applied by the "around" and "mid" comparisons.
const (
	PriceAroundSpread      = 5000
	AgeAroundSpread        = 5
	PriceIndexAroundSpread = 5
	PriceMidRatio          = 0.1
	AgeMidSpread           = 1
)

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLegacyAgeAround makes the age "around" range tag use price+5 as its
// upper bound, matching filters already deployed against the old service.
func WithLegacyAgeAround(enabled bool) CompilerOption {
	return func(c *Compiler) { c.legacyAgeAround = enabled }
}

// Compiler turns normalized criteria into a filter expression.
// It is immutable after construction and safe for concurrent use.
type Compiler struct {
	legacyAgeAround bool
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// LegacyAgeAround reports whether the legacy age bound is active.
func (c *Compiler) LegacyAgeAround() bool { return c.legacyAgeAround }

// Compile ANDs the non-empty clause-groups: company, registration, range tags
// and min/max tags. Leaves missing a required value are skipped. An empty
// result matches every record.
func (c *Compiler) Compile(n criteria.Normalized) filter.Expression {
	return filter.And(
		companyClause(n.CompanyNames),
		registrationClause(n.RegistrationType),
		c.rangeClause(n),
		minMaxClause(n),
	)
}

func companyClause(companies []criteria.Optional[insurance.Company]) filter.Expression {
	seen := make(map[insurance.Company]struct{}, len(companies))
	leaves := make([]filter.Expression, 0, len(companies))
	for _, opt := range companies {
		company, ok := opt.Get()
		if !ok {
			continue
		}
		if _, dup := seen[company]; dup {
			continue
		}
		seen[company] = struct{}{}
		leaves = append(leaves, leaf(filter.NewMatch(insurance.FieldCompanyName, string(company))))
	}
	return filter.Or(leaves...)
}

func registrationClause(opt criteria.Optional[insurance.RegistrationType]) filter.Expression {
	r, ok := opt.Get()
	if !ok {
		return filter.Expression{}
	}
	return leaf(filter.NewMatch(insurance.FieldRegistrationType, string(r)))
}

func (c *Compiler) rangeClause(n criteria.Normalized) filter.Expression {
	leaves := make([]filter.Expression, 0, len(n.RangeTags))
	for _, tag := range n.RangeTags {
		cmp, ok := tag.Comparison.Get()
		if !ok {
			continue
		}
		switch tag.Dimension {
		case criteria.Price:
			leaves = append(leaves, compare(priceField(n.Gender), cmp, n.Price, PriceAroundSpread))
		case criteria.Age:
			if cmp == criteria.Around && c.legacyAgeAround {
				leaves = append(leaves, legacyAgeAround(n.Age, n.Price))
				continue
			}
			leaves = append(leaves, compare(insurance.FieldInsuranceAgeGroup, cmp, n.Age, AgeAroundSpread))
		case criteria.PriceIndex:
			leaves = append(leaves, compare(insurance.FieldPriceIndex, cmp, n.PriceIndex, PriceIndexAroundSpread))
		}
	}
	return filter.Or(leaves...)
}

func minMaxClause(n criteria.Normalized) filter.Expression {
	leaves := make([]filter.Expression, 0, len(n.MinMaxTags))
	for _, tag := range n.MinMaxTags {
		b, ok := tag.Bound.Get()
		if !ok {
			continue
		}
		switch tag.Dimension {
		case criteria.Price:
			leaves = append(leaves, priceBound(priceField(n.Gender), b, n.Price))
		case criteria.Age:
			leaves = append(leaves, ageBound(b, n.Age))
		case criteria.PriceIndex:
			leaves = append(leaves, spreadBound(insurance.FieldPriceIndex, b, n.PriceIndex, PriceIndexAroundSpread))
		}
	}
	return filter.Or(leaves...)
}

// priceField picks the premium column; anything but man falls back to premiumFemale.
func priceField(g criteria.Optional[insurance.Gender]) string {
	if v, ok := g.Get(); ok && v == insurance.Man {
		return insurance.FieldPremiumMale
	}
	return insurance.FieldPremiumFemale
}

func compare(field string, cmp criteria.Comparison, value criteria.Optional[float64], spread float64) filter.Expression {
	v, ok := value.Get()
	if !ok {
		return filter.Expression{}
	}
	switch cmp {
	case criteria.Over:
		return leaf(filter.GTE(field, v))
	case criteria.Less:
		return leaf(filter.LTE(field, v))
	case criteria.Around:
		return leaf(filter.Between(field, v-spread, v+spread))
	}
	return filter.Expression{}
}

func legacyAgeAround(age, price criteria.Optional[float64]) filter.Expression {
	a, ok := age.Get()
	if !ok {
		return filter.Expression{}
	}
	p, ok := price.Get()
	if !ok {
		return filter.Expression{}
	}
	return leaf(filter.Between(insurance.FieldInsuranceAgeGroup, a-AgeAroundSpread, p+AgeAroundSpread))
}

func priceBound(field string, b criteria.Bound, value criteria.Optional[float64]) filter.Expression {
	v, ok := value.Get()
	if !ok {
		return filter.Expression{}
	}
	if b == criteria.Mid {
		return leaf(filter.Between(field, v-v*PriceMidRatio, v+v*PriceMidRatio))
	}
	return spreadBound(field, b, value, 0)
}

func ageBound(b criteria.Bound, value criteria.Optional[float64]) filter.Expression {
	v, ok := value.Get()
	if !ok {
		return filter.Expression{}
	}
	switch b {
	case criteria.Max:
		return leaf(filter.LTE(insurance.FieldInsuranceAgeGroupEnd, v))
	case criteria.Min:
		return leaf(filter.GTE(insurance.FieldInsuranceAgeGroupStart, v))
	case criteria.Mid:
		return filter.And(
			leaf(filter.GTE(insurance.FieldInsuranceAgeGroupStart, v-AgeMidSpread)),
			leaf(filter.LTE(insurance.FieldInsuranceAgeGroupEnd, v+AgeMidSpread)),
		)
	}
	return filter.Expression{}
}

func spreadBound(field string, b criteria.Bound, value criteria.Optional[float64], spread float64) filter.Expression {
	v, ok := value.Get()
	if !ok {
		return filter.Expression{}
	}
	switch b {
	case criteria.Max:
		return leaf(filter.LTE(field, v))
	case criteria.Min:
		return leaf(filter.GTE(field, v))
	case criteria.Mid:
		return leaf(filter.Between(field, v-spread, v+spread))
	}
	return filter.Expression{}
}

// leaf drops conditions whose constructor rejected the value.
func leaf(c filter.Condition, err error) filter.Expression {
	if err != nil {
		return filter.Expression{}
	}
	return filter.Leaf(c)
}

// ClauseGroups returns how many clause-groups a compiled expression carries.
func ClauseGroups(e filter.Expression) int {
	if e.Op() != filter.OpAnd {
		if e.IsEmpty() {
			return 0
		}
		return 1
	}
	return len(e.Children())
}
