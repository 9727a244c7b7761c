package inbound

import (
	"github.com/shandysiswandi/gobank/internal/ledger/auth"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgrouter"
)

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, verifier auth.Verifier) {
	end := &HTTPEndpoint{uc: uc, verifier: verifier}

	r.POST("/customers", end.official(end.AddCustomer))
	r.GET("/customers", end.official(end.Customers))

	r.POST("/accounts", end.OpenAccount)
	r.GET("/accounts", end.official(end.Accounts))
	r.GET("/accounts/:id/balance", end.Balance)
	r.POST("/accounts/:id/deposit", end.Deposit)
	r.POST("/accounts/:id/withdraw", end.Withdraw)
	r.GET("/accounts/:id/transactions", end.AccountTransactions)

	r.POST("/transfers", end.Transfer)
	r.GET("/transactions", end.official(end.Transactions))
}
