// Package insurefilter is an embeddable client for the insurance filter.
//
// It turns raw search criteria into a filter tree and runs it against
// Redis/Valkey search, PostgreSQL or an in-memory CEL store.
//
//	client, _ := insurefilter.New(ctx,
//	    insurefilter.WithValkey("localhost:6379", ""),
//	    insurefilter.WithEmptyCriteria(insurefilter.NoResults),
//	)
//	defer client.Close()
//
//	records, _ := client.Filter(ctx, insurefilter.Criteria{
//	    CompanyNames: insurefilter.Labels{"삼성생명"},
//	    Gender:       "man",
//	    Price:        "30000",
//	    RangeTags:    insurefilter.Tags{insurefilter.NewTag("over", "price")},
//	})
//
// Without a store option the client keeps records in memory; seed it with
// WithRecords or Upsert.
package insurefilter
