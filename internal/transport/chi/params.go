package chi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
)

// ListInsurancesParams are the query parameters of GET /api/v1/insurances.
// Tags are written as kind:dimension, e.g. range=over:price&minmax=max:age.
type ListInsurancesParams struct {
	Company          []string
	Gender           string
	RegistrationType string
	InsuranceType    string
	Age              string
	Price            string
	PriceIndex       string
	Range            []string
	MinMax           []string
}

func bindListParams(q url.Values) (ListInsurancesParams, error) {
	var p ListInsurancesParams
	bindings := []struct {
		name string
		dest any
	}{
		{"company", &p.Company},
		{"gender", &p.Gender},
		{"registrationType", &p.RegistrationType},
		{"insuranceType", &p.InsuranceType},
		{"age", &p.Age},
		{"price", &p.Price},
		{"priceIndex", &p.PriceIndex},
		{"range", &p.Range},
		{"minmax", &p.MinMax},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return ListInsurancesParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

// Raw converts query parameters into raw criteria.
func (p ListInsurancesParams) Raw() criteria.Raw {
	raw := criteria.Raw{
		Gender:           criteria.Label(p.Gender),
		RegistrationType: criteria.Label(p.RegistrationType),
		InsuranceType:    criteria.Label(p.InsuranceType),
		Age:              criteria.NumericText(p.Age),
		Price:            criteria.NumericText(p.Price),
		PriceIndex:       criteria.NumericText(p.PriceIndex),
		RangeTags:        parseTags(p.Range),
		MinMaxTags:       parseTags(p.MinMax),
	}
	if p.Company != nil {
		raw.CompanyNames = criteria.Labels(p.Company)
	}
	return raw
}

func parseTags(values []string) criteria.RawTags {
	if len(values) == 0 {
		return nil
	}
	tags := make(criteria.RawTags, 0, len(values))
	for _, v := range values {
		kind, dim, _ := strings.Cut(v, ":")
		tags = append(tags, criteria.NewRawTag(kind, dim))
	}
	return tags
}
