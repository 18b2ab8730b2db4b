package insurance

import (
	"github.com/kailas-cloud/insurefilter/internal/db"
	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// buildIndex describes the FT index over insurance hashes.
// Tags are case-sensitive because company keys are stored verbatim.
func buildIndex(name, keyPrefix string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).Prefix(keyPrefix)
	for _, f := range dominsurance.TagFields {
		b.TagWithOpts(f, ",", true)
	}
	for _, f := range dominsurance.NumericFields {
		if f == dominsurance.FieldPriceIndex {
			b.SortableNumeric(f)
			continue
		}
		b.Numeric(f)
	}
	return b.Build()
}
