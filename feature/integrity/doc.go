// Package integrity provides health checks for the mirror's infrastructure.
//
// # Checks Provided
//
//   - Schema: Validates that every catalog and store table has the columns the GORM models declare (names, and types where a model pins one).
//   - Storage: Checks that the snapshot bucket exists and lists the artist and offer snapshots a prefetching sync would not find.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true to create the bucket).
package integrity
