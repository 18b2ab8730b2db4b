package insurance

import (
	"fmt"
	"strconv"

	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// Hash fields that are stored but not filterable.
const (
	fieldProductName   = "productName"
	fieldInsuranceType = "insuranceType"
	fieldLogoID        = "logoId"
	fieldLogoName      = "logoName"
	fieldLogoURL       = "logoUrl"
)

var logoFields = []string{fieldLogoID, fieldLogoName, fieldLogoURL}

// returnFields lists the hash fields fetched for a query.
func returnFields(includeLogo bool) []string {
	fields := make([]string, 0, 3+len(dominsurance.TagFields)+len(dominsurance.NumericFields)+len(logoFields))
	fields = append(fields, fieldProductName, fieldInsuranceType)
	fields = append(fields, dominsurance.TagFields...)
	fields = append(fields, dominsurance.NumericFields...)
	if includeLogo {
		fields = append(fields, logoFields...)
	}
	return fields
}

// buildHashFields converts a Record into a flat map[string]string for HSET.
func buildHashFields(r *dominsurance.Record) map[string]string {
	m := make(map[string]string, 16)
	m[fieldProductName] = r.ProductName
	m[dominsurance.FieldCompanyName] = string(r.CompanyName)
	if r.RegistrationType != "" {
		m[dominsurance.FieldRegistrationType] = string(r.RegistrationType)
	}
	if r.InsuranceType != "" {
		m[fieldInsuranceType] = string(r.InsuranceType)
	}
	for _, f := range dominsurance.NumericFields {
		v, _ := r.Numeric(f)
		m[f] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if r.Logo != nil {
		m[fieldLogoID] = r.Logo.ID
		m[fieldLogoName] = r.Logo.Name
		m[fieldLogoURL] = r.Logo.URL
	}
	return m
}

// parseHashFields converts a flat hash map back into a Record.
func parseHashFields(id string, m map[string]string) (dominsurance.Record, error) {
	rec := dominsurance.Record{
		ID:               id,
		ProductName:      m[fieldProductName],
		CompanyName:      dominsurance.Company(m[dominsurance.FieldCompanyName]),
		RegistrationType: dominsurance.RegistrationType(m[dominsurance.FieldRegistrationType]),
		InsuranceType:    dominsurance.Type(m[fieldInsuranceType]),
	}

	nums := make(map[string]float64, len(dominsurance.NumericFields))
	for _, f := range dominsurance.NumericFields {
		raw, ok := m[f]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return dominsurance.Record{}, fmt.Errorf("record %s field %s: %w", id, f, err)
		}
		nums[f] = v
	}
	rec.PremiumMale = nums[dominsurance.FieldPremiumMale]
	rec.PremiumFemale = nums[dominsurance.FieldPremiumFemale]
	rec.InsuranceAgeGroup = nums[dominsurance.FieldInsuranceAgeGroup]
	rec.InsuranceAgeGroupStart = nums[dominsurance.FieldInsuranceAgeGroupStart]
	rec.InsuranceAgeGroupEnd = nums[dominsurance.FieldInsuranceAgeGroupEnd]
	rec.PriceIndex = nums[dominsurance.FieldPriceIndex]

	if logoID := m[fieldLogoID]; logoID != "" {
		rec.Logo = &dominsurance.Logo{
			ID:   logoID,
			Name: m[fieldLogoName],
			URL:  m[fieldLogoURL],
		}
	}
	return rec, nil
}
