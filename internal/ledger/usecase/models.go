package usecase

import (
	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shopspring/decimal"
)

type DepositResult struct {
	Account     entity.Account
	Transaction entity.Transaction
}

type WithdrawResult struct {
	Account     entity.Account
	Transaction entity.Transaction
}

type TransferResult struct {
	From   entity.Account
	To     entity.Account
	Debit  entity.Transaction
	Credit entity.Transaction
}

type BalanceResult struct {
	AccountID int64
	Balance   decimal.Decimal
}

// Totals sums every account balance; transfers leave it unchanged.
func Totals(accounts []entity.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
