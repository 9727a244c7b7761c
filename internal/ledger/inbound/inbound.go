package inbound

import (
	"context"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shandysiswandi/gobank/internal/ledger/usecase"
	"github.com/shopspring/decimal"
)

type uc interface {
	AddCustomer(ctx context.Context, name string) (entity.Customer, error)
	OpenAccount(ctx context.Context, customerID int64, initial decimal.Decimal) (entity.Account, error)
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (usecase.DepositResult, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (usecase.WithdrawResult, error)
	Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (usecase.TransferResult, error)
	Balance(ctx context.Context, accountID int64) (usecase.BalanceResult, error)
	LoginCustomer(ctx context.Context, customerID int64) (entity.Customer, error)
	Customers(ctx context.Context) []entity.Customer
	Accounts(ctx context.Context) []entity.Account
	Transactions(ctx context.Context) []entity.Transaction
	CustomerAccounts(ctx context.Context, customerID int64) []entity.Account
	AccountTransactions(ctx context.Context, accountID int64) ([]entity.Transaction, error)
}

type Role int

const (
	RoleCustomer Role = iota + 1
	RoleOfficial
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleOfficial:
		return "official"
	default:
		return "anonymous"
	}
}

// Session identifies who is driving a menu. CustomerID is zero for officials.
type Session struct {
	ID         string
	Role       Role
	CustomerID int64
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
