package insurance

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/insurefilter/internal/db/postgres"
	"github.com/kailas-cloud/insurefilter/internal/domain"
	dominsurance "github.com/kailas-cloud/insurefilter/internal/domain/insurance"
)

// sqlStore is the consumer interface for the SQL backend (ISP).
type sqlStore interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLColumns maps filter keys to insurance_info columns.
var SQLColumns = postgres.Columns{
	dominsurance.FieldCompanyName:            "i.company_name",
	dominsurance.FieldRegistrationType:       "i.registration_type",
	dominsurance.FieldPremiumMale:            "i.premium_male",
	dominsurance.FieldPremiumFemale:          "i.premium_female",
	dominsurance.FieldInsuranceAgeGroup:      "i.insurance_age_group",
	dominsurance.FieldInsuranceAgeGroupStart: "i.insurance_age_group_start",
	dominsurance.FieldInsuranceAgeGroupEnd:   "i.insurance_age_group_end",
	dominsurance.FieldPriceIndex:             "i.price_index",
}

const selectRecords = `SELECT i.id, i.product_name, i.company_name, i.registration_type, i.insurance_type,
i.premium_male, i.premium_female, i.insurance_age_group, i.insurance_age_group_start,
i.insurance_age_group_end, i.price_index`

const selectLogo = `, l.id, l.name, l.url FROM insurance_info i LEFT JOIN insurance_logo l ON l.id = i.logo_id`

const upsertLogo = `INSERT INTO insurance_logo (id, name, url) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url`

const upsertRecord = `INSERT INTO insurance_info (id, product_name, company_name, registration_type, insurance_type,
premium_male, premium_female, insurance_age_group, insurance_age_group_start, insurance_age_group_end,
price_index, logo_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET product_name = EXCLUDED.product_name, company_name = EXCLUDED.company_name,
registration_type = EXCLUDED.registration_type, insurance_type = EXCLUDED.insurance_type,
premium_male = EXCLUDED.premium_male, premium_female = EXCLUDED.premium_female,
insurance_age_group = EXCLUDED.insurance_age_group, insurance_age_group_start = EXCLUDED.insurance_age_group_start,
insurance_age_group_end = EXCLUDED.insurance_age_group_end, price_index = EXCLUDED.price_index,
logo_id = EXCLUDED.logo_id`

// SQLRepo implements usecase/filtering.Repository over PostgreSQL.
type SQLRepo struct {
	store      sqlStore
	maxResults int
}

// NewSQL creates a PostgreSQL-backed insurance repository.
func NewSQL(s sqlStore, maxResults int) *SQLRepo {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &SQLRepo{store: s, maxResults: maxResults}
}

// FindMatching runs one SELECT with the filter rendered as a WHERE clause.
func (r *SQLRepo) FindMatching(ctx context.Context, q dominsurance.Query) ([]dominsurance.Record, error) {
	where, args, err := postgres.RenderWhere(q.Filter, SQLColumns)
	if err != nil {
		return nil, fmt.Errorf("render where: %w", err)
	}
	args = append(args, r.maxResults)
	query := buildSelect(where, q.IncludeLogo, len(args))

	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select insurances: %w", err)
	}
	defer rows.Close()

	records := make([]dominsurance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, q.IncludeLogo)
		if err != nil {
			return nil, fmt.Errorf("scan insurance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insurances: %w", err)
	}
	return records, nil
}

// UpsertMany validates and writes records (and their logos) in one transaction.
func (r *SQLRepo) UpsertMany(ctx context.Context, records []dominsurance.Record) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w: %w", i, domain.ErrInvalidRecord, err)
		}
	}

	err := r.store.InTx(ctx, func(tx *sql.Tx) error {
		for i := range records {
			rec := &records[i]
			var logoID sql.NullString
			if rec.Logo != nil {
				if _, err := tx.ExecContext(ctx, upsertLogo, rec.Logo.ID, rec.Logo.Name, rec.Logo.URL); err != nil {
					return fmt.Errorf("logo %s: %w", rec.Logo.ID, err)
				}
				logoID = sql.NullString{String: rec.Logo.ID, Valid: true}
			}
			_, err := tx.ExecContext(ctx, upsertRecord,
				rec.ID, rec.ProductName, string(rec.CompanyName),
				nullString(string(rec.RegistrationType)), nullString(string(rec.InsuranceType)),
				rec.PremiumMale, rec.PremiumFemale, rec.InsuranceAgeGroup,
				rec.InsuranceAgeGroupStart, rec.InsuranceAgeGroupEnd, rec.PriceIndex, logoID,
			)
			if err != nil {
				return fmt.Errorf("record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert %d records: %w", len(records), err)
	}
	return nil
}

// Count returns the number of stored records.
func (r *SQLRepo) Count(ctx context.Context) (int, error) {
	rows, err := r.store.Query(ctx, "SELECT COUNT(*) FROM insurance_info")
	if err != nil {
		return 0, fmt.Errorf("count insurances: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
	}
	return n, rows.Err()
}

func buildSelect(where string, includeLogo bool, limitArg int) string {
	var b strings.Builder
	b.WriteString(selectRecords)
	if includeLogo {
		b.WriteString(selectLogo)
	} else {
		b.WriteString(" FROM insurance_info i")
	}
	b.WriteString(" WHERE ")
	b.WriteString(where)
	b.WriteString(" ORDER BY i.id LIMIT $")
	b.WriteString(strconv.Itoa(limitArg))
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner, includeLogo bool) (dominsurance.Record, error) {
	var (
		rec                       dominsurance.Record
		company                   string
		regType, insType          sql.NullString
		logoID, logoName, logoURL sql.NullString
	)
	dest := []any{
		&rec.ID, &rec.ProductName, &company, &regType, &insType,
		&rec.PremiumMale, &rec.PremiumFemale, &rec.InsuranceAgeGroup,
		&rec.InsuranceAgeGroupStart, &rec.InsuranceAgeGroupEnd, &rec.PriceIndex,
	}
	if includeLogo {
		dest = append(dest, &logoID, &logoName, &logoURL)
	}
	if err := row.Scan(dest...); err != nil {
		return dominsurance.Record{}, err
	}

	rec.CompanyName = dominsurance.Company(company)
	rec.RegistrationType = dominsurance.RegistrationType(regType.String)
	rec.InsuranceType = dominsurance.Type(insType.String)
	if logoID.Valid {
		rec.Logo = &dominsurance.Logo{ID: logoID.String, Name: logoName.String, URL: logoURL.String}
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
