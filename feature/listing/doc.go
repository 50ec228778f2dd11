// Package listing adapts the vendor's inventory-results endpoint to the
// paginator's Fetcher and Parser contracts.
//
// # Transports
//
//   - HTTPFetcher: plain GET requests, paced by a token-bucket limiter.
//   - BrowserFetcher: loads the same URL in a headless browser and reads the
//     JSON rendered inside the page's <pre> element, for when the vendor
//     rejects non-browser clients.
//   - ArchivingFetcher: wraps a live transport and copies every raw page to
//     object storage under cycles/<timestamp>/offset-NNNNNN.json.
//   - ReplayFetcher: serves an archived cycle back, which makes a past
//     collection reproducible against any database.
//
// Every transport encodes the query identically: the vendor query, offset
// and count as one JSON document in the "query" URL parameter.
//
// # Parsing
//
// VendorParser reads total_matches_found (a string in practice) and maps each
// result's VIN, first TRIM/PAINT/WHEELS/INTERIOR option, TotalPrice and
// StateProvince onto an inventory.Record. Prices given as strings may carry
// "$" and thousands separators; an unreadable price is logged with the item_id
// and stored as 0 rather than failing the page.
//
// # Usage
//
//	tr, err := listing.Open(ctx, cfg.Collector.Transport, listing.Archive{}, log)
//	defer tr.Close()
//	p := paginator.New(tr, listing.NewVendorParser(log), cfg.Collector.Paging, log)
package listing
