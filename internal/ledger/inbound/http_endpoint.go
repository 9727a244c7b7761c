package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gobank/internal/ledger/auth"
	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shandysiswandi/gobank/internal/ledger/usecase"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc       uc
	verifier auth.Verifier
}

// official guards h with HTTP Basic auth. Only the password is checked.
func (h *HTTPEndpoint) official(next pkgrouter.Handler) pkgrouter.Handler {
	return func(ctx context.Context, r *http.Request) (any, error) {
		_, password, ok := r.BasicAuth()
		if !ok {
			return nil, pkgerror.NewUnauthorized("official credentials required")
		}
		if err := h.verifier.Verify(ctx, password); err != nil {
			return nil, err
		}
		return next(ctx, r)
	}
}

func (h *HTTPEndpoint) AddCustomer(ctx context.Context, r *http.Request) (any, error) {
	var req CreateCustomerRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	customer, err := h.uc.AddCustomer(ctx, req.Name)
	warning, err := saveWarning(ctx, err)
	if err != nil {
		return nil, err
	}

	return CustomerResponse{Customer: toHTTPCustomer(customer), Warning: warning}, nil
}

func (h *HTTPEndpoint) Customers(ctx context.Context, _ *http.Request) (any, error) {
	customers := h.uc.Customers(ctx)

	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, toHTTPCustomer(c))
	}
	return CustomersResponse{Customers: out}, nil
}

func (h *HTTPEndpoint) OpenAccount(ctx context.Context, r *http.Request) (any, error) {
	var req OpenAccountRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.CustomerID < 1 {
		return nil, pkgerror.NewInvalidInput("customer_id is required")
	}
	if _, err := h.uc.LoginCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	account, err := h.uc.OpenAccount(ctx, req.CustomerID, req.InitialBalance)
	warning, err := saveWarning(ctx, err)
	if err != nil {
		return nil, err
	}

	return AccountResponse{Account: toHTTPAccount(account), Warning: warning}, nil
}

func (h *HTTPEndpoint) Accounts(ctx context.Context, _ *http.Request) (any, error) {
	accounts := h.uc.Accounts(ctx)

	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toHTTPAccount(a))
	}
	return AccountsResponse{Accounts: out, total: usecase.Totals(accounts)}, nil
}

func (h *HTTPEndpoint) Balance(ctx context.Context, _ *http.Request) (any, error) {
	id, err := pkgrouter.GetParamID(ctx, "id")
	if err != nil {
		return nil, err
	}

	res, err := h.uc.Balance(ctx, id)
	if err != nil {
		return nil, err
	}

	return BalanceResponse{AccountID: res.AccountID, Balance: formatMoney(res.Balance)}, nil
}

func (h *HTTPEndpoint) Deposit(ctx context.Context, r *http.Request) (any, error) {
	id, err := pkgrouter.GetParamID(ctx, "id")
	if err != nil {
		return nil, err
	}

	var req AmountRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	res, err := h.uc.Deposit(ctx, id, req.Amount)
	warning, err := saveWarning(ctx, err)
	if err != nil {
		return nil, err
	}

	return MovementResponse{
		Account:     toHTTPAccount(res.Account),
		Transaction: toHTTPTransaction(res.Transaction),
		Warning:     warning,
	}, nil
}

func (h *HTTPEndpoint) Withdraw(ctx context.Context, r *http.Request) (any, error) {
	id, err := pkgrouter.GetParamID(ctx, "id")
	if err != nil {
		return nil, err
	}

	var req AmountRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	res, err := h.uc.Withdraw(ctx, id, req.Amount)
	warning, err := saveWarning(ctx, err)
	if err != nil {
		return nil, err
	}

	return MovementResponse{
		Account:     toHTTPAccount(res.Account),
		Transaction: toHTTPTransaction(res.Transaction),
		Warning:     warning,
	}, nil
}

func (h *HTTPEndpoint) AccountTransactions(ctx context.Context, _ *http.Request) (any, error) {
	id, err := pkgrouter.GetParamID(ctx, "id")
	if err != nil {
		return nil, err
	}

	txs, err := h.uc.AccountTransactions(ctx, id)
	if err != nil {
		return nil, err
	}

	return TransactionsResponse{Transactions: toHTTPTransactions(txs)}, nil
}

func (h *HTTPEndpoint) Transfer(ctx context.Context, r *http.Request) (any, error) {
	var req TransferRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}

	res, err := h.uc.Transfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount)
	warning, err := saveWarning(ctx, err)
	if err != nil {
		return nil, err
	}

	return TransferResponse{
		From:    toHTTPAccount(res.From),
		To:      toHTTPAccount(res.To),
		Debit:   toHTTPTransaction(res.Debit),
		Credit:  toHTTPTransaction(res.Credit),
		Warning: warning,
	}, nil
}

func (h *HTTPEndpoint) Transactions(ctx context.Context, _ *http.Request) (any, error) {
	return TransactionsResponse{Transactions: toHTTPTransactions(h.uc.Transactions(ctx))}, nil
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return pkgerror.NewInvalidInput("empty request body")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return pkgerror.NewInvalidFormat(err)
	}
	return nil
}

// saveWarning turns a failed save into a warning; the mutation already
// happened so the request still succeeds.
func saveWarning(ctx context.Context, err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if usecase.IsSaveFailure(err) {
		slog.WarnContext(ctx, "request applied but not persisted", "error", err)
		return pkgerror.MsgOf(err), nil
	}
	return "", err
}

func toHTTPCustomer(c entity.Customer) Customer {
	return Customer{ID: c.ID, Name: c.Name}
}

func toHTTPAccount(a entity.Account) Account {
	return Account{ID: a.ID, CustomerID: a.CustomerID, Balance: formatMoney(a.Balance)}
}

func toHTTPTransaction(tx entity.Transaction) Transaction {
	return Transaction{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Amount:       formatMoney(tx.Amount),
		Type:         tx.Type,
		Counterparty: tx.Counterparty,
		Label:        tx.Label(),
	}
}

func toHTTPTransactions(txs []entity.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toHTTPTransaction(tx))
	}
	return out
}
