// Package pkguid provides generators for identifiers that are not ledger
// record IDs (those are sequential and owned by the record store).
//
//   - String IDs (UUIDv7) correlate console sessions and HTTP requests.
//   - Numeric IDs (Snowflake) identify ledger events on the audit bus.
package pkguid
