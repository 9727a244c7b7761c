package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name string `json:"name"`
}

type OpenAccountRequest struct {
	CustomerID     int64           `json:"customer_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Account struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Balance    string `json:"balance"`
}

type Transaction struct {
	ID           int64         `json:"id"`
	AccountID    int64         `json:"account_id"`
	Amount       string        `json:"amount"`
	Type         entity.TxType `json:"type"`
	Counterparty int64         `json:"counterparty_id,omitempty"`
	Label        string        `json:"label"`
}

type CustomerResponse struct {
	Customer
	Warning string `json:"warning,omitempty"`
}

func (CustomerResponse) StatusCode() int {
	return http.StatusCreated
}

func (CustomerResponse) Message() string {
	return "customer added"
}

type CustomersResponse struct {
	Customers []Customer `json:"customers"`
}

type AccountResponse struct {
	Account
	Warning string `json:"warning,omitempty"`
}

func (AccountResponse) StatusCode() int {
	return http.StatusCreated
}

func (AccountResponse) Message() string {
	return "account opened"
}

type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
	total    decimal.Decimal
}

func (r AccountsResponse) Meta() map[string]any {
	return map[string]any{
		"count":         len(r.Accounts),
		"total_balance": formatMoney(r.total),
	}
}

type BalanceResponse struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
}

type MovementResponse struct {
	Account     Account     `json:"account"`
	Transaction Transaction `json:"transaction"`
	Warning     string      `json:"warning,omitempty"`
}

type TransferResponse struct {
	From    Account     `json:"from"`
	To      Account     `json:"to"`
	Debit   Transaction `json:"debit"`
	Credit  Transaction `json:"credit"`
	Warning string      `json:"warning,omitempty"`
}

func (TransferResponse) Message() string {
	return "transfer completed"
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
