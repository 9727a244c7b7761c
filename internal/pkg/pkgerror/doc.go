// Package pkgerror defines the error vocabulary shared by the ledger, its
// console and its HTTP API.
//
// Ledger operations return *Error values carrying a user-facing message, a
// high-level type and a stable code. The console prints Msg, the HTTP edge
// maps Code to a status. ErrNotFound is the sentinel returned by stores.
package pkgerror
