package filtering

import (
	"math"
	"testing"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

// leaves flattens the tree in order.
func leaves(e filter.Expression) []filter.Condition {
	switch e.Op() {
	case filter.OpLeaf:
		return []filter.Condition{e.Condition()}
	case filter.OpAnd, filter.OpOr:
		var out []filter.Condition
		for _, c := range e.Children() {
			out = append(out, leaves(c)...)
		}
		return out
	}
	return nil
}

func onlyLeaf(t *testing.T, e filter.Expression) filter.Condition {
	t.Helper()
	ls := leaves(e)
	if len(ls) != 1 {
		t.Fatalf("expected exactly one leaf, got %d in %s", len(ls), e)
	}
	return ls[0]
}

func assertBounds(t *testing.T, c filter.Condition, key string, gte, lte *float64) {
	t.Helper()
	if c.Key() != key {
		t.Fatalf("key = %q, want %q", c.Key(), key)
	}
	r := c.Range()
	if r == nil {
		t.Fatalf("%s: expected range condition", key)
	}
	check := func(name string, got, want *float64) {
		switch {
		case want == nil && got != nil:
			t.Errorf("%s %s = %v, want unset", key, name, *got)
		case want != nil && got == nil:
			t.Errorf("%s %s unset, want %v", key, name, *want)
		case want != nil && !approx(*got, *want):
			t.Errorf("%s %s = %v, want %v", key, name, *got, *want)
		}
	}
	check("gte", r.GTE(), gte)
	check("lte", r.LTE(), lte)
	if r.GT() != nil || r.LT() != nil {
		t.Errorf("%s: exclusive bounds must not be used", key)
	}
}

func f(v float64) *float64 { return &v }

func rangeTag(c criteria.Comparison, d criteria.Dimension) criteria.RangeTag {
	return criteria.RangeTag{Comparison: criteria.Some(c), Dimension: d}
}

func minMaxTag(b criteria.Bound, d criteria.Dimension) criteria.MinMaxTag {
	return criteria.MinMaxTag{Bound: criteria.Some(b), Dimension: d}
}

func TestCompile_RangeOverPriceMan(t *testing.T) {
	e := NewCompiler().Compile(criteria.Normalized{
		Gender:    criteria.Some(insurance.Man),
		Price:     criteria.Some(100000.0),
		RangeTags: []criteria.RangeTag{rangeTag(criteria.Over, criteria.Price)},
	})
	assertBounds(t, onlyLeaf(t, e), insurance.FieldPremiumMale, f(100000), nil)
}

func TestCompile_PriceFieldByGender(t *testing.T) {
	tests := []struct {
		name   string
		gender criteria.Optional[insurance.Gender]
		want   string
	}{
		{"man", criteria.Some(insurance.Man), insurance.FieldPremiumMale},
		{"woman", criteria.Some(insurance.Woman), insurance.FieldPremiumFemale},
		{"absent", criteria.None[insurance.Gender](), insurance.FieldPremiumFemale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCompiler().Compile(criteria.Normalized{
				Gender:     tt.gender,
				Price:      criteria.Some(50000.0),
				RangeTags:  []criteria.RangeTag{rangeTag(criteria.Less, criteria.Price)},
				MinMaxTags: []criteria.MinMaxTag{minMaxTag(criteria.Min, criteria.Price)},
			})
			for _, c := range leaves(e) {
				if c.Key() != tt.want {
					t.Errorf("key = %q, want %q", c.Key(), tt.want)
				}
			}
		})
	}
}

func TestCompile_RangeTags(t *testing.T) {
	base := criteria.Normalized{
		Age:        criteria.Some(30.0),
		Price:      criteria.Some(100000.0),
		PriceIndex: criteria.Some(12.5),
	}
	tests := []struct {
		name     string
		tag      criteria.RangeTag
		key      string
		gte, lte *float64
	}{
		{"over price", rangeTag(criteria.Over, criteria.Price), insurance.FieldPremiumFemale, f(100000), nil},
		{"less price", rangeTag(criteria.Less, criteria.Price), insurance.FieldPremiumFemale, nil, f(100000)},
		{"around price", rangeTag(criteria.Around, criteria.Price), insurance.FieldPremiumFemale, f(95000), f(105000)},
		{"over age", rangeTag(criteria.Over, criteria.Age), insurance.FieldInsuranceAgeGroup, f(30), nil},
		{"less age", rangeTag(criteria.Less, criteria.Age), insurance.FieldInsuranceAgeGroup, nil, f(30)},
		{"around age", rangeTag(criteria.Around, criteria.Age), insurance.FieldInsuranceAgeGroup, f(25), f(35)},
		{"over priceIndex", rangeTag(criteria.Over, criteria.PriceIndex), insurance.FieldPriceIndex, f(12.5), nil},
		{"less priceIndex", rangeTag(criteria.Less, criteria.PriceIndex), insurance.FieldPriceIndex, nil, f(12.5)},
		{"around priceIndex", rangeTag(criteria.Around, criteria.PriceIndex), insurance.FieldPriceIndex, f(7.5), f(17.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := base
			n.RangeTags = []criteria.RangeTag{tt.tag}
			assertBounds(t, onlyLeaf(t, NewCompiler().Compile(n)), tt.key, tt.gte, tt.lte)
		})
	}
}

// The age "around" range tag uses age+5 as its upper bound. The legacy
// option reproduces the deployed price+5 bound.
func TestCompile_AgeAroundUpperBound(t *testing.T) {
	n := criteria.Normalized{
		Age:       criteria.Some(30.0),
		Price:     criteria.Some(100000.0),
		RangeTags: []criteria.RangeTag{rangeTag(criteria.Around, criteria.Age)},
	}

	t.Run("fixed", func(t *testing.T) {
		assertBounds(t, onlyLeaf(t, NewCompiler().Compile(n)), insurance.FieldInsuranceAgeGroup, f(25), f(35))
	})

	t.Run("legacy", func(t *testing.T) {
		c := NewCompiler(WithLegacyAgeAround(true))
		if !c.LegacyAgeAround() {
			t.Fatal("LegacyAgeAround() = false")
		}
		assertBounds(t, onlyLeaf(t, c.Compile(n)), insurance.FieldInsuranceAgeGroup, f(25), f(100005))
	})

	t.Run("legacy without price skips the leaf", func(t *testing.T) {
		m := n
		m.Price = criteria.None[float64]()
		if e := NewCompiler(WithLegacyAgeAround(true)).Compile(m); !e.IsEmpty() {
			t.Errorf("expected empty expression, got %s", e)
		}
	})

	t.Run("legacy leaves over and less alone", func(t *testing.T) {
		m := n
		m.RangeTags = []criteria.RangeTag{rangeTag(criteria.Over, criteria.Age)}
		assertBounds(t, onlyLeaf(t, NewCompiler(WithLegacyAgeAround(true)).Compile(m)),
			insurance.FieldInsuranceAgeGroup, f(30), nil)
	})
}

func TestCompile_MinMaxTags(t *testing.T) {
	base := criteria.Normalized{
		Gender:     criteria.Some(insurance.Man),
		Age:        criteria.Some(40.0),
		Price:      criteria.Some(200000.0),
		PriceIndex: criteria.Some(10.0),
	}
	tests := []struct {
		name     string
		tag      criteria.MinMaxTag
		key      string
		gte, lte *float64
	}{
		{"max price", minMaxTag(criteria.Max, criteria.Price), insurance.FieldPremiumMale, nil, f(200000)},
		{"min price", minMaxTag(criteria.Min, criteria.Price), insurance.FieldPremiumMale, f(200000), nil},
		{"mid price", minMaxTag(criteria.Mid, criteria.Price), insurance.FieldPremiumMale, f(180000), f(220000)},
		{"max age", minMaxTag(criteria.Max, criteria.Age), insurance.FieldInsuranceAgeGroupEnd, nil, f(40)},
		{"min age", minMaxTag(criteria.Min, criteria.Age), insurance.FieldInsuranceAgeGroupStart, f(40), nil},
		{"max priceIndex", minMaxTag(criteria.Max, criteria.PriceIndex), insurance.FieldPriceIndex, nil, f(10)},
		{"min priceIndex", minMaxTag(criteria.Min, criteria.PriceIndex), insurance.FieldPriceIndex, f(10), nil},
		{"mid priceIndex", minMaxTag(criteria.Mid, criteria.PriceIndex), insurance.FieldPriceIndex, f(5), f(15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := base
			n.MinMaxTags = []criteria.MinMaxTag{tt.tag}
			assertBounds(t, onlyLeaf(t, NewCompiler().Compile(n)), tt.key, tt.gte, tt.lte)
		})
	}
}

func TestCompile_MidAgeIsAndPair(t *testing.T) {
	e := NewCompiler().Compile(criteria.Normalized{
		Age:        criteria.Some(40.0),
		MinMaxTags: []criteria.MinMaxTag{minMaxTag(criteria.Mid, criteria.Age)},
	})

	// AND(clause-group) -> OR(tags) -> AND(start, end)
	group := e.Children()
	if len(group) != 1 || group[0].Op() != filter.OpOr {
		t.Fatalf("expected one OR clause-group, got %s", e)
	}
	tags := group[0].Children()
	if len(tags) != 1 || tags[0].Op() != filter.OpAnd {
		t.Fatalf("expected mid age to be an AND pair, got %s", group[0])
	}
	pair := leaves(tags[0])
	if len(pair) != 2 {
		t.Fatalf("pair = %d leaves", len(pair))
	}
	assertBounds(t, pair[0], insurance.FieldInsuranceAgeGroupStart, f(39), nil)
	assertBounds(t, pair[1], insurance.FieldInsuranceAgeGroupEnd, nil, f(41))
}

func TestCompile_CompanyClause(t *testing.T) {
	t.Run("unresolved entry does not abort", func(t *testing.T) {
		n := criteria.Normalize(criteria.Raw{CompanyNames: criteria.Labels{"삼성생명", "Z"}})
		c := onlyLeaf(t, NewCompiler().Compile(n))
		if c.Key() != insurance.FieldCompanyName || c.Match() != "SAMSUNG_LIFE" {
			t.Errorf("leaf = %s", c)
		}
	})

	t.Run("deduplicated in input order", func(t *testing.T) {
		n := criteria.Normalize(criteria.Raw{CompanyNames: criteria.Labels{"한화생명", "삼성생명", "한화생명"}})
		e := NewCompiler().Compile(n)
		want := filter.And(filter.Or(
			filter.Leaf(mustMatch(t, insurance.FieldCompanyName, "HANWHA_LIFE")),
			filter.Leaf(mustMatch(t, insurance.FieldCompanyName, "SAMSUNG_LIFE")),
		))
		if !e.Equal(want) {
			t.Errorf("got %s, want %s", e, want)
		}
	})

	t.Run("nothing resolved", func(t *testing.T) {
		n := criteria.Normalize(criteria.Raw{CompanyNames: criteria.Labels{"Z", ""}})
		if e := NewCompiler().Compile(n); !e.IsEmpty() {
			t.Errorf("expected empty expression, got %s", e)
		}
	})
}

func mustMatch(t *testing.T, key, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(key, value)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return c
}

func TestCompile_GroupsAreANDed(t *testing.T) {
	n := criteria.Normalized{
		CompanyNames:     []criteria.Optional[insurance.Company]{criteria.Some(insurance.Company("KYOBO_LIFE"))},
		RegistrationType: criteria.Some(insurance.RegistrationOnline),
		Gender:           criteria.Some(insurance.Woman),
		Age:              criteria.Some(30.0),
		Price:            criteria.Some(100000.0),
		RangeTags: []criteria.RangeTag{
			rangeTag(criteria.Over, criteria.Price),
			rangeTag(criteria.Less, criteria.Age),
		},
		MinMaxTags: []criteria.MinMaxTag{minMaxTag(criteria.Max, criteria.Price)},
	}
	e := NewCompiler().Compile(n)

	if e.Op() != filter.OpAnd {
		t.Fatalf("top-level op = %v", e.Op())
	}
	groups := e.Children()
	if len(groups) != 4 || ClauseGroups(e) != 4 {
		t.Fatalf("expected 4 clause-groups, got %d: %s", len(groups), e)
	}
	if groups[0].Op() != filter.OpOr || groups[0].Leaves() != 1 {
		t.Errorf("company group = %s", groups[0])
	}
	if groups[1].Op() != filter.OpLeaf || groups[1].Condition().Match() != "ONLINE" {
		t.Errorf("registration group = %s", groups[1])
	}
	if groups[2].Op() != filter.OpOr || groups[2].Leaves() != 2 {
		t.Errorf("range group = %s", groups[2])
	}
	if groups[3].Op() != filter.OpOr || groups[3].Leaves() != 1 {
		t.Errorf("min/max group = %s", groups[3])
	}
}

func TestCompile_SkipPolicy(t *testing.T) {
	tests := []struct {
		name string
		n    criteria.Normalized
	}{
		{"price tag without price", criteria.Normalized{
			RangeTags: []criteria.RangeTag{rangeTag(criteria.Over, criteria.Price)},
		}},
		{"age tag without age", criteria.Normalized{
			Price:      criteria.Some(1.0),
			MinMaxTags: []criteria.MinMaxTag{minMaxTag(criteria.Mid, criteria.Age)},
		}},
		{"absent comparison", criteria.Normalized{
			Price:     criteria.Some(1.0),
			RangeTags: []criteria.RangeTag{{Comparison: criteria.None[criteria.Comparison](), Dimension: criteria.Price}},
		}},
		{"absent bound", criteria.Normalized{
			PriceIndex: criteria.Some(1.0),
			MinMaxTags: []criteria.MinMaxTag{{Bound: criteria.None[criteria.Bound](), Dimension: criteria.PriceIndex}},
		}},
		{"unknown dimension", criteria.Normalized{
			Price:     criteria.Some(1.0),
			RangeTags: []criteria.RangeTag{rangeTag(criteria.Over, criteria.Dimension("weight"))},
		}},
		{"nothing", criteria.Normalized{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCompiler().Compile(tt.n)
			if !e.IsEmpty() {
				t.Errorf("expected empty expression, got %s", e)
			}
			if ClauseGroups(e) != 0 {
				t.Errorf("ClauseGroups = %d", ClauseGroups(e))
			}
		})
	}
}

func TestCompile_SkippedTagKeepsSiblings(t *testing.T) {
	e := NewCompiler().Compile(criteria.Normalized{
		PriceIndex: criteria.Some(3.0),
		RangeTags: []criteria.RangeTag{
			rangeTag(criteria.Over, criteria.Price),
			rangeTag(criteria.Over, criteria.PriceIndex),
		},
	})
	assertBounds(t, onlyLeaf(t, e), insurance.FieldPriceIndex, f(3), nil)
}

func TestCompile_Idempotent(t *testing.T) {
	n := criteria.Normalize(criteria.Raw{
		CompanyNames:     criteria.Labels{"삼성생명", "메리츠화재"},
		Gender:           "man",
		RegistrationType: "대면",
		RangeTags:        []criteria.RawTag{criteria.NewRawTag("around", "price"), criteria.NewRawTag("over", "age")},
		MinMaxTags:       []criteria.RawTag{criteria.NewRawTag("mid", "age"), criteria.NewRawTag("mid", "price")},
		Age:              "45",
		Price:            "300000",
		PriceIndex:       "8",
	})
	c := NewCompiler()
	first, second := c.Compile(n), c.Compile(n)
	if !first.Equal(second) {
		t.Errorf("compilations differ:\n%s\n%s", first, second)
	}
	if first.String() != second.String() {
		t.Error("rendered compilations differ")
	}
}

func TestCompile_EndToEndPriceIndex(t *testing.T) {
	t.Run("valid text", func(t *testing.T) {
		n := criteria.Normalize(criteria.Raw{
			PriceIndex: "12.5",
			RangeTags:  []criteria.RawTag{criteria.NewRawTag("less", "priceIndex")},
		})
		assertBounds(t, onlyLeaf(t, NewCompiler().Compile(n)), insurance.FieldPriceIndex, nil, f(12.5))
	})

	t.Run("invalid text", func(t *testing.T) {
		n := criteria.Normalize(criteria.Raw{
			PriceIndex: "abc",
			RangeTags:  []criteria.RawTag{criteria.NewRawTag("less", "priceIndex")},
		})
		if e := NewCompiler().Compile(n); !e.IsEmpty() {
			t.Errorf("expected no leaf, got %s", e)
		}
	})
}

func TestCompile_ZeroIsAValue(t *testing.T) {
	e := NewCompiler().Compile(criteria.Normalized{
		PriceIndex: criteria.Some(0.0),
		RangeTags:  []criteria.RangeTag{rangeTag(criteria.Over, criteria.PriceIndex)},
	})
	assertBounds(t, onlyLeaf(t, e), insurance.FieldPriceIndex, f(0), nil)
}

func TestCompile_HugeValueNeverPanics(t *testing.T) {
	// Spreads around MaxFloat64 overflow to +Inf; the leaf is dropped.
	e := NewCompiler().Compile(criteria.Normalized{
		Price:      criteria.Some(math.MaxFloat64),
		MinMaxTags: []criteria.MinMaxTag{minMaxTag(criteria.Mid, criteria.Price)},
		RangeTags:  []criteria.RangeTag{rangeTag(criteria.Over, criteria.Price)},
	})
	ls := leaves(e)
	if len(ls) != 1 {
		t.Fatalf("expected only the over leaf, got %s", e)
	}
	assertBounds(t, ls[0], insurance.FieldPremiumFemale, f(math.MaxFloat64), nil)
}
