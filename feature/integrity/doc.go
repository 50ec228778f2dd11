// Package integrity provides health checks for the collector's infrastructure.
//
// # Checks Provided
//
//   - Schema: Validates that every inventory table carries the columns its model declares and that the availability view exists.
//   - Archive: Checks that the raw page archive bucket exists and reports the latest archived cycle.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
package integrity
