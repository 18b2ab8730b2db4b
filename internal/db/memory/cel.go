package memory

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// RenderCEL converts a filter expression into a CEL boolean expression.
// An empty expression renders as "true".
func RenderCEL(expr filter.Expression) string {
	switch expr.Op() {
	case filter.OpLeaf:
		return renderCondition(expr.Condition())
	case filter.OpAnd:
		return renderGroup(expr.Children(), " && ")
	case filter.OpOr:
		return renderGroup(expr.Children(), " || ")
	default:
		return "true"
	}
}

func renderGroup(children []filter.Expression, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = RenderCEL(c)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func renderCondition(c filter.Condition) string {
	if c.IsMatch() {
		return c.Key() + " == " + strconv.Quote(c.Match())
	}
	r := c.Range()
	if r == nil {
		return "false"
	}
	var parts []string
	if v := r.GT(); v != nil {
		parts = append(parts, c.Key()+" > "+doubleLiteral(*v))
	}
	if v := r.GTE(); v != nil {
		parts = append(parts, c.Key()+" >= "+doubleLiteral(*v))
	}
	if v := r.LT(); v != nil {
		parts = append(parts, c.Key()+" < "+doubleLiteral(*v))
	}
	if v := r.LTE(); v != nil {
		parts = append(parts, c.Key()+" <= "+doubleLiteral(*v))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " && ") + ")"
}

// doubleLiteral always yields a CEL double so numeric fields never compare against ints.
func doubleLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
