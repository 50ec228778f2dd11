// Package paginator retrieves the complete result set of a vendor query as a
// flat slice of records, hiding the vendor's page-size limit.
//
// The first page is always requested at offset 0. Its total match count
// decides how many further pages are fetched; the count is never
// re-validated against later pages. Every page after the first is preceded
// by a fixed delay so the collector stays under the vendor's informal rate
// limits.
//
// Any transport or parse failure aborts FetchAll and no partial result is
// returned, which makes a collection cycle all-or-nothing at the fetch stage.
//
// # Usage
//
//	p := paginator.New(fetcher, parser, paginator.Config{
//	    PageSize:  50,
//	    PageDelay: 5 * time.Second,
//	}, logger)
//	records, err := p.FetchAll(ctx, cfg.Collector.Query)
package paginator
