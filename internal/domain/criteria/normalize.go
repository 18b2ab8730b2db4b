package criteria

import (
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// Normalized is Raw with every label resolved to an enum member or absent.
type Normalized struct {
	// CompanyNames holds one entry per input label; nil means no list was given.
	CompanyNames     []Optional[insurance.Company]        `json:"companyNames"`
	Gender           Optional[insurance.Gender]           `json:"gender"`
	RegistrationType Optional[insurance.RegistrationType] `json:"registrationType"`
	RangeTags        []RangeTag                           `json:"rangeTags"`
	MinMaxTags       []MinMaxTag                          `json:"minMaxTags"`
	InsuranceType    Optional[insurance.Type]             `json:"insuranceType"`
	Age              Optional[float64]                    `json:"age"`
	Price            Optional[float64]                    `json:"price"`
	PriceIndex       Optional[float64]                    `json:"priceIndex"`
}

// Normalize resolves every field of raw independently. It never fails:
// anything unrecognised becomes absent.
func Normalize(raw Raw) Normalized {
	n := Normalized{
		Gender:           lookup(insurance.Genders.Lookup, string(raw.Gender)),
		RegistrationType: lookup(insurance.RegistrationTypes.Lookup, string(raw.RegistrationType)),
		InsuranceType:    lookup(insurance.Types.Lookup, string(raw.InsuranceType)),
		Age:              ParseNumber(raw.Age),
		Price:            ParseNumber(raw.Price),
		PriceIndex:       ParseNumber(raw.PriceIndex),
	}

	if raw.CompanyNames != nil {
		n.CompanyNames = make([]Optional[insurance.Company], len(raw.CompanyNames))
		for i, label := range raw.CompanyNames {
			n.CompanyNames[i] = lookup(insurance.Companies.Lookup, label)
		}
	}

	for _, tag := range raw.RangeTags {
		dim, ok := dimensions.Lookup(tag.Dimension())
		if !ok {
			continue
		}
		n.RangeTags = append(n.RangeTags, RangeTag{
			Comparison: lookup(comparisons.Lookup, tag.Kind()),
			Dimension:  dim,
		})
	}

	for _, tag := range raw.MinMaxTags {
		dim, ok := dimensions.Lookup(tag.Dimension())
		if !ok {
			continue
		}
		n.MinMaxTags = append(n.MinMaxTags, MinMaxTag{
			Bound:     lookup(bounds.Lookup, tag.Kind()),
			Dimension: dim,
		})
	}

	return n
}

func lookup[T any](fn func(string) (T, bool), label string) Optional[T] {
	if label == "" {
		return None[T]()
	}
	if v, ok := fn(label); ok {
		return Some(v)
	}
	return None[T]()
}

// ParseNumber reads the longest decimal prefix of the trimmed text, so
// "100000원" is 100000 and "12.5%" is 12.5. Text without a numeric prefix,
// NaN and infinite values are absent.
func ParseNumber(text NumericText) Optional[float64] {
	prefix := numericPrefix(strings.TrimSpace(string(text)))
	if prefix == "" {
		return None[float64]()
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return None[float64]()
	}
	return Some(f)
}

// numericPrefix returns the longest prefix of s matching
// [+-]?(digits[.digits?]|.digits)([eE][+-]?digits)?, or "".
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Resolved reports whether at least one field resolved to a value.
func (n Normalized) Resolved() bool {
	for _, c := range n.CompanyNames {
		if c.IsPresent() {
			return true
		}
	}
	return n.Gender.IsPresent() ||
		n.RegistrationType.IsPresent() ||
		n.InsuranceType.IsPresent() ||
		n.Age.IsPresent() ||
		n.Price.IsPresent() ||
		n.PriceIndex.IsPresent() ||
		len(n.RangeTags) > 0 ||
		len(n.MinMaxTags) > 0
}
