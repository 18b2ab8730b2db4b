package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Op is the node kind of an Expression.
type Op int

// Node kinds. The zero value is the empty expression.
const (
	OpEmpty Op = iota
	OpLeaf
	OpAnd
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpLeaf:
		return "leaf"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "empty"
	}
}

// Expression is an immutable AND/OR tree of field conditions.
// The zero value is empty and matches every record.
type Expression struct {
	op       Op
	cond     Condition
	children []Expression
}

// Leaf wraps a single condition.
func Leaf(c Condition) Expression {
	return Expression{op: OpLeaf, cond: c}
}

// And combines the non-empty children; with none left the result is empty.
func And(children ...Expression) Expression {
	return combine(OpAnd, children)
}

// Or combines the non-empty children; with none left the result is empty.
func Or(children ...Expression) Expression {
	return combine(OpOr, children)
}

func combine(op Op, children []Expression) Expression {
	kept := make([]Expression, 0, len(children))
	for _, c := range children {
		if !c.IsEmpty() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return Expression{}
	}
	return Expression{op: op, children: kept}
}

// Op returns the node kind.
func (e Expression) Op() Op { return e.op }

// Condition returns the leaf condition. Only meaningful for OpLeaf.
func (e Expression) Condition() Condition { return e.cond }

// Children returns a copy of the composite children.
func (e Expression) Children() []Expression {
	if len(e.children) == 0 {
		return nil
	}
	out := make([]Expression, len(e.children))
	copy(out, e.children)
	return out
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return e.op == OpEmpty }

// Leaves returns the number of conditions in the tree.
func (e Expression) Leaves() int {
	switch e.op {
	case OpLeaf:
		return 1
	case OpAnd, OpOr:
		n := 0
		for _, c := range e.children {
			n += c.Leaves()
		}
		return n
	default:
		return 0
	}
}

// Equal reports structural equality.
func (e Expression) Equal(o Expression) bool {
	if e.op != o.op {
		return false
	}
	switch e.op {
	case OpLeaf:
		return e.cond.Equal(o.cond)
	case OpAnd, OpOr:
		if len(e.children) != len(o.children) {
			return false
		}
		for i := range e.children {
			if !e.children[i].Equal(o.children[i]) {
				return false
			}
		}
	}
	return true
}

// String renders the tree for logs and debugging, e.g.
// AND(OR(companyName == A, companyName == B), premiumMale >= 100000).
func (e Expression) String() string {
	switch e.op {
	case OpLeaf:
		return e.cond.String()
	case OpAnd, OpOr:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		return strings.ToUpper(e.op.String()) + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "*"
	}
}

// Condition is a single filter clause: either a tag match or a numeric range.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// GTE creates key >= v.
func GTE(key string, v float64) (Condition, error) {
	r, err := NewRangeFilter(nil, &v, nil, nil)
	if err != nil {
		return Condition{}, err
	}
	return NewRange(key, r)
}

// LTE creates key <= v.
func LTE(key string, v float64) (Condition, error) {
	r, err := NewRangeFilter(nil, nil, nil, &v)
	if err != nil {
		return Condition{}, err
	}
	return NewRange(key, r)
}

// Between creates lo <= key <= hi.
func Between(key string, lo, hi float64) (Condition, error) {
	r, err := NewRangeFilter(nil, &lo, nil, &hi)
	if err != nil {
		return Condition{}, err
	}
	return NewRange(key, r)
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Equal reports whether two conditions constrain the same field the same way.
func (c Condition) Equal(o Condition) bool {
	if c.key != o.key || c.match != o.match {
		return false
	}
	if (c.rangeExpr == nil) != (o.rangeExpr == nil) {
		return false
	}
	if c.rangeExpr == nil {
		return true
	}
	return c.rangeExpr.Equal(*o.rangeExpr)
}

func (c Condition) String() string {
	if c.IsMatch() {
		return c.key + " == " + c.match
	}
	if c.rangeExpr == nil {
		return c.key
	}
	r := c.rangeExpr
	var parts []string
	if r.gt != nil {
		parts = append(parts, "> "+formatFloat(*r.gt))
	}
	if r.gte != nil {
		parts = append(parts, ">= "+formatFloat(*r.gte))
	}
	if r.lt != nil {
		parts = append(parts, "< "+formatFloat(*r.lt))
	}
	if r.lte != nil {
		parts = append(parts, "<= "+formatFloat(*r.lte))
	}
	return c.key + " " + strings.Join(parts, " && ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
// Boundaries must be finite.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	for _, b := range []*float64{gt, gte, lt, lte} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return Range{}, fmt.Errorf("range boundary must be finite, got %v", *b)
		}
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Equal compares boundaries by value.
func (r Range) Equal(o Range) bool {
	return eqPtr(r.gt, o.gt) && eqPtr(r.gte, o.gte) && eqPtr(r.lt, o.lt) && eqPtr(r.lte, o.lte)
}

func eqPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
