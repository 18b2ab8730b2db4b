package db

import "github.com/kailas-cloud/insurefilter/internal/domain/search/filter"

// FilterQuery is the input for a pure filter search (no scoring).
type FilterQuery struct {
	IndexName    string
	Filter       filter.Expression
	Offset       int
	Limit        int
	ReturnFields []string
	SortBy       string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
