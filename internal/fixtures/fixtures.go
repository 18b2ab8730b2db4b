// Package fixtures loads insurance records from YAML seed files.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/insurefilter/internal/domain"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// idNamespace seeds deterministic IDs for records that omit one.
var idNamespace = uuid.MustParse("6f1c1f52-3c0e-4b8e-9d53-2b1c8e0a9a41")

type file struct {
	Insurances []insurance.Record `yaml:"insurances"`
}

// Load reads and parses a fixtures file.
func Load(path string) ([]insurance.Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes records, derives missing IDs and validates every record.
// A derived ID is stable for the same company and product name, so reseeding upserts.
func Parse(data []byte) ([]insurance.Record, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Insurances))
	for i := range f.Insurances {
		rec := &f.Insurances[i]
		if rec.ID == "" {
			rec.ID = DeriveID(rec.CompanyName, rec.ProductName)
		}
		if rec.Logo != nil && rec.Logo.ID == "" {
			rec.Logo.ID = uuid.NewSHA1(idNamespace, []byte("logo/"+rec.Logo.URL)).String()
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("fixture %d: %w: %w", i, domain.ErrInvalidRecord, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("fixture %d: %w: duplicate id %s", i, domain.ErrInvalidRecord, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return f.Insurances, nil
}

// DeriveID returns the stable record ID for a company and product name.
func DeriveID(company insurance.Company, productName string) string {
	return uuid.NewSHA1(idNamespace, []byte(string(company)+"/"+productName)).String()
}
