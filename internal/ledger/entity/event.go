package entity

// LedgerEvent announces one appended transaction to the audit bus.
type LedgerEvent struct {
	EventID     int64
	Transaction Transaction
}
