package entity

import "github.com/shopspring/decimal"

type Account struct {
	ID         int64
	CustomerID int64
	Balance    decimal.Decimal
}

// CanDebit reports whether amount can be taken without a negative balance.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}
