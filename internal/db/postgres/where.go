package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// Columns maps filter keys to column expressions.
type Columns map[string]string

// RenderWhere renders a filter expression as a parameterised WHERE body.
// Placeholders are numbered from $1. An empty expression renders as TRUE.
func RenderWhere(expr filter.Expression, cols Columns) (string, []any, error) {
	w := &whereBuilder{cols: cols}
	sql, err := w.build(expr)
	if err != nil {
		return "", nil, err
	}
	return sql, w.args, nil
}

type whereBuilder struct {
	cols Columns
	args []any
}

func (w *whereBuilder) build(expr filter.Expression) (string, error) {
	switch expr.Op() {
	case filter.OpLeaf:
		return w.condition(expr.Condition())
	case filter.OpAnd:
		return w.group(expr.Children(), " AND ")
	case filter.OpOr:
		return w.group(expr.Children(), " OR ")
	default:
		return "TRUE", nil
	}
}

func (w *whereBuilder) group(children []filter.Expression, sep string) (string, error) {
	parts := make([]string, 0, len(children))
	for _, c := range children {
		s, err := w.build(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (w *whereBuilder) condition(c filter.Condition) (string, error) {
	col, ok := w.cols[c.Key()]
	if !ok {
		return "", fmt.Errorf("no column for filter key %q", c.Key())
	}
	if c.IsMatch() {
		return col + " = " + w.bind(c.Match()), nil
	}
	r := c.Range()
	if r == nil {
		return "", fmt.Errorf("condition on %q has neither match nor range", c.Key())
	}

	var parts []string
	if v := r.GT(); v != nil {
		parts = append(parts, col+" > "+w.bind(*v))
	}
	if v := r.GTE(); v != nil {
		parts = append(parts, col+" >= "+w.bind(*v))
	}
	if v := r.LT(); v != nil {
		parts = append(parts, col+" < "+w.bind(*v))
	}
	if v := r.LTE(); v != nil {
		parts = append(parts, col+" <= "+w.bind(*v))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func (w *whereBuilder) bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}
