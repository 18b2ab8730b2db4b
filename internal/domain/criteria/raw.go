// Package criteria turns loosely typed filtering input into normalized criteria.
package criteria

import (
	"bytes"
	"encoding/json"
)

// Raw is the tagged question as produced upstream. Every field is optional.
type Raw struct {
	CompanyNames     Labels      `json:"Company Name,omitempty"`
	Gender           Label       `json:"Gender,omitempty"`
	RegistrationType Label       `json:"Registration Type,omitempty"`
	RangeTags        RawTags     `json:"Insurance Price Range Index,omitempty"`
	MinMaxTags       RawTags     `json:"Insurance Price Min Max Index,omitempty"`
	InsuranceType    Label       `json:"Insurance Type,omitempty"`
	Age              NumericText `json:"Age,omitempty"`
	Price            NumericText `json:"Insurance Price,omitempty"`
	PriceIndex       NumericText `json:"Price Index,omitempty"`
}

// Label is a single free-text label. Anything but a JSON string decodes as "".
type Label string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	*l = Label(labelOf(data))
	return nil
}

// Labels is a list of free-text labels. A bare string decodes as a
// one-element list; non-string elements decode as "". Numbers, objects
// and booleans decode as an absent list.
type Labels []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Labels) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*l = nil
		return nil
	case data[0] == '"':
		*l = Labels{labelOf(data)}
		return nil
	case data[0] != '[':
		*l = nil
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil //nolint:nilerr // malformed lists are absent
	}
	out := make(Labels, len(items))
	for i, item := range items {
		out[i] = labelOf(item)
	}
	*l = out
	return nil
}

// RawTag is a (kind, dimension) pair such as ["over", "price"]. Any JSON
// array decodes; missing or non-string elements become "".
type RawTag []string

// NewRawTag builds a tag from its two halves.
func NewRawTag(kind, dimension string) RawTag { return RawTag{kind, dimension} }

// Kind returns the first element.
func (t RawTag) Kind() string {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Dimension returns the second element.
func (t RawTag) Dimension() string {
	if len(t) > 1 {
		return t[1]
	}
	return ""
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *RawTag) UnmarshalJSON(data []byte) error {
	var l Labels
	if err := l.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = RawTag(l)
	return nil
}

// RawTags is a list of tags. Anything but a JSON array decodes as an
// absent list.
type RawTags []RawTag

// UnmarshalJSON implements json.Unmarshaler.
func (ts *RawTags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*ts = nil
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*ts = nil
		return nil //nolint:nilerr // malformed lists are absent
	}
	out := make(RawTags, len(items))
	for i, item := range items {
		if err := out[i].UnmarshalJSON(item); err != nil {
			return err
		}
	}
	*ts = out
	return nil
}

func labelOf(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return ""
	}
	return s
}

// NumericText keeps the raw text of a number that may arrive as a JSON
// number or a JSON string. Parsing happens during normalization.
type NumericText string

// UnmarshalJSON implements json.Unmarshaler. Values that are neither a
// number nor a string decode as "".
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = ""
	case data[0] == '"':
		*n = NumericText(labelOf(data))
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*n = NumericText(num.String())
	default:
		*n = ""
	}
	return nil
}
