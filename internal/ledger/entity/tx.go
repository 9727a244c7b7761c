package entity

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
	Type      TxType
	// Counterparty is the other account of a transfer leg, zero otherwise.
	Counterparty int64
}

// Label renders the human-readable type shown in listings,
// e.g. "Transfer to account 7".
func (t Transaction) Label() string {
	switch t.Type {
	case TxTypeTransferOut:
		return "Transfer to account " + strconv.FormatInt(t.Counterparty, 10)
	case TxTypeTransferIn:
		return "Transfer from account " + strconv.FormatInt(t.Counterparty, 10)
	default:
		return string(t.Type)
	}
}
