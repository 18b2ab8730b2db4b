// Package insurance holds the insurance record model and its closed enumerations.
package insurance

import (
	"errors"

	"github.com/kailas-cloud/insurefilter/internal/domain/search/filter"
)

// Filterable field keys shared by the compiler and every store.
const (
	FieldCompanyName            = "companyName"
	FieldRegistrationType       = "registrationType"
	FieldPremiumMale            = "premiumMale"
	FieldPremiumFemale          = "premiumFemale"
	FieldInsuranceAgeGroup      = "insuranceAgeGroup"
	FieldInsuranceAgeGroupStart = "insuranceAgeGroupStart"
	FieldInsuranceAgeGroupEnd   = "insuranceAgeGroupEnd"
	FieldPriceIndex             = "priceIndex"
)

// TagFields are matched by equality.
var TagFields = []string{FieldCompanyName, FieldRegistrationType}

// NumericFields are compared by range.
var NumericFields = []string{
	FieldPremiumMale,
	FieldPremiumFemale,
	FieldInsuranceAgeGroup,
	FieldInsuranceAgeGroupStart,
	FieldInsuranceAgeGroupEnd,
	FieldPriceIndex,
}

// Logo is the image attached to a record.
type Logo struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Record is a single insurance product.
type Record struct {
	ID                     string           `json:"id" yaml:"id"`
	ProductName            string           `json:"productName" yaml:"productName"`
	CompanyName            Company          `json:"companyName" yaml:"companyName"`
	RegistrationType       RegistrationType `json:"registrationType" yaml:"registrationType"`
	InsuranceType          Type             `json:"insuranceType,omitempty" yaml:"insuranceType"`
	PremiumMale            float64          `json:"premiumMale" yaml:"premiumMale"`
	PremiumFemale          float64          `json:"premiumFemale" yaml:"premiumFemale"`
	InsuranceAgeGroup      float64          `json:"insuranceAgeGroup" yaml:"insuranceAgeGroup"`
	InsuranceAgeGroupStart float64          `json:"insuranceAgeGroupStart" yaml:"insuranceAgeGroupStart"`
	InsuranceAgeGroupEnd   float64          `json:"insuranceAgeGroupEnd" yaml:"insuranceAgeGroupEnd"`
	PriceIndex             float64          `json:"priceIndex" yaml:"priceIndex"`
	Logo                   *Logo            `json:"insuranceLogo,omitempty" yaml:"logo"`
}

// Validate checks required fields and enum membership.
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.New("record id is required")
	}
	if !Companies.Contains(r.CompanyName) {
		return errors.New("unknown company " + string(r.CompanyName))
	}
	if r.RegistrationType != "" && !RegistrationTypes.Contains(r.RegistrationType) {
		return errors.New("unknown registration type " + string(r.RegistrationType))
	}
	if r.InsuranceType != "" && !Types.Contains(r.InsuranceType) {
		return errors.New("unknown insurance type " + string(r.InsuranceType))
	}
	if r.InsuranceAgeGroupStart > r.InsuranceAgeGroupEnd {
		return errors.New("insuranceAgeGroupStart must not exceed insuranceAgeGroupEnd")
	}
	return nil
}

// Numeric returns the value of a numeric filter field.
func (r *Record) Numeric(field string) (float64, bool) {
	switch field {
	case FieldPremiumMale:
		return r.PremiumMale, true
	case FieldPremiumFemale:
		return r.PremiumFemale, true
	case FieldInsuranceAgeGroup:
		return r.InsuranceAgeGroup, true
	case FieldInsuranceAgeGroupStart:
		return r.InsuranceAgeGroupStart, true
	case FieldInsuranceAgeGroupEnd:
		return r.InsuranceAgeGroupEnd, true
	case FieldPriceIndex:
		return r.PriceIndex, true
	}
	return 0, false
}

// Tag returns the value of a tag filter field.
func (r *Record) Tag(field string) (string, bool) {
	switch field {
	case FieldCompanyName:
		return string(r.CompanyName), true
	case FieldRegistrationType:
		return string(r.RegistrationType), true
	}
	return "", false
}

// Query is the single "find matching records" request issued per filtering call.
type Query struct {
	Filter      filter.Expression
	IncludeLogo bool
}
