// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys on a configurable writer,
//     since stdout belongs to the interactive console.
//   - Attaching the session or request correlation ID to each log record.
package pkglog
