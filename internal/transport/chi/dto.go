package chi

import (
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// FilterNode is the JSON form of a compiled filter expression.
type FilterNode struct {
	Op       string       `json:"op"`
	Key      string       `json:"key,omitempty"`
	Match    string       `json:"match,omitempty"`
	GT       *float64     `json:"gt,omitempty"`
	GTE      *float64     `json:"gte,omitempty"`
	LT       *float64     `json:"lt,omitempty"`
	LTE      *float64     `json:"lte,omitempty"`
	Children []FilterNode `json:"children,omitempty"`
}

// ExplainResponse is the body of POST /api/v1/insurances/explain.
type ExplainResponse struct {
	Criteria   criteria.Normalized `json:"criteria"`
	Filter     FilterNode          `json:"filter"`
	Expression string              `json:"expression"`
	SkipsStore bool                `json:"skips_store"`
}

func explainToResponse(e filteringuc.Explanation) ExplainResponse {
	return ExplainResponse{
		Criteria:   e.Criteria,
		Filter:     filterToNode(e.Filter),
		Expression: e.Filter.String(),
		SkipsStore: e.SkipsStore,
	}
}

func filterToNode(e filter.Expression) FilterNode {
	node := FilterNode{Op: e.Op().String()}
	switch e.Op() {
	case filter.OpLeaf:
		c := e.Condition()
		node.Key = c.Key()
		node.Match = c.Match()
		if r := c.Range(); r != nil {
			node.GT, node.GTE, node.LT, node.LTE = r.GT(), r.GTE(), r.LT(), r.LTE()
		}
	case filter.OpAnd, filter.OpOr:
		children := e.Children()
		node.Children = make([]FilterNode, len(children))
		for i, c := range children {
			node.Children[i] = filterToNode(c)
		}
	}
	return node
}
