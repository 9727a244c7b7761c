package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gobank/internal/pkg/pkguid"
	"github.com/shopspring/decimal"
)

type Store interface {
	Seed(ctx context.Context, customers []entity.Customer, accounts []entity.Account, txs []entity.Transaction)
	AddCustomer(ctx context.Context, name string) (entity.Customer, error)
	AddAccount(ctx context.Context, customerID int64, balance decimal.Decimal) (entity.Account, error)
	AppendTransaction(ctx context.Context, tx entity.Transaction) (entity.Transaction, error)
	Customer(ctx context.Context, id int64) (entity.Customer, error)
	Account(ctx context.Context, id int64) (entity.Account, error)
	SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	Customers(ctx context.Context) []entity.Customer
	Accounts(ctx context.Context) []entity.Account
	Transactions(ctx context.Context) []entity.Transaction
}

// Repository is the durable copy of the ledger. Each Save call rewrites the
// whole collection.
type Repository interface {
	Load(ctx context.Context) ([]entity.Customer, []entity.Account, []entity.Transaction, error)
	SaveCustomers(ctx context.Context, customers []entity.Customer) error
	SaveAccounts(ctx context.Context, accounts []entity.Account) error
	SaveTransactions(ctx context.Context, txs []entity.Transaction) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.LedgerEvent) error
}

type Dependency struct {
	Store      Store
	Repository Repository
	Events     EventPublisher
	EventID    pkguid.NumberID
}

// Usecase implements the ledger operations. Every operation runs under one
// mutex and persists the collections it touched before returning.
type Usecase struct {
	mu      sync.Mutex
	store   Store
	repo    Repository
	events  EventPublisher
	eventID pkguid.NumberID
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:   dep.Store,
		repo:    dep.Repository,
		events:  dep.Events,
		eventID: dep.EventID,
	}
}

// Restore seeds the store from the repository. A malformed file is returned
// as is; the caller treats it as fatal.
func (u *Usecase) Restore(ctx context.Context) error {
	if u.store == nil || u.repo == nil {
		return pkgerror.NewServer(errors.New("missing dependency"))
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	customers, accounts, txs, err := u.repo.Load(ctx)
	if err != nil {
		return err
	}
	u.store.Seed(ctx, customers, accounts, txs)

	slog.InfoContext(ctx, "ledger restored", "customers", len(customers), "accounts", len(accounts), "transactions", len(txs))

	return nil
}

// AddCustomer stores name verbatim. A name may be blank but must fit on one
// line of the customers file.
func (u *Usecase) AddCustomer(ctx context.Context, name string) (entity.Customer, error) {
	if strings.ContainsAny(name, "\r\n") {
		return entity.Customer{}, errNameLineBreak
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	c, err := u.store.AddCustomer(ctx, name)
	if err != nil {
		return entity.Customer{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "customer added", "customer_id", c.ID)

	return c, u.persist(ctx, saveCustomers)
}

// OpenAccount does not check that customerID exists nor the sign of initial.
func (u *Usecase) OpenAccount(ctx context.Context, customerID int64, initial decimal.Decimal) (entity.Account, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	a, err := u.store.AddAccount(ctx, customerID, initial)
	if err != nil {
		return entity.Account{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "account opened", "account_id", a.ID, "customer_id", customerID)

	return a, u.persist(ctx, saveAccounts)
}

// Deposit adds amount as given; the amount is not range checked.
func (u *Usecase) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (DepositResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc, err := u.store.Account(ctx, accountID)
	if err != nil {
		return DepositResult{}, mapStoreErr(err, errAccountNotFound)
	}

	acc.Balance = acc.Balance.Add(amount)
	if err := u.store.SetBalance(ctx, acc.ID, acc.Balance); err != nil {
		return DepositResult{}, normalizeErr(err)
	}

	tx, err := u.record(ctx, entity.Transaction{AccountID: acc.ID, Amount: amount, Type: entity.TxTypeDeposit})
	if err != nil {
		return DepositResult{}, err
	}

	return DepositResult{Account: acc, Transaction: tx}, u.persist(ctx, saveAccounts, saveTransactions)
}

// Withdraw only requires amount to be covered by the balance.
func (u *Usecase) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (WithdrawResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc, err := u.store.Account(ctx, accountID)
	if err != nil {
		return WithdrawResult{}, mapStoreErr(err, errAccountNotFound)
	}

	if !acc.CanDebit(amount) {
		return WithdrawResult{}, errInsufficient
	}

	acc.Balance = acc.Balance.Sub(amount)
	if err := u.store.SetBalance(ctx, acc.ID, acc.Balance); err != nil {
		return WithdrawResult{}, normalizeErr(err)
	}

	tx, err := u.record(ctx, entity.Transaction{AccountID: acc.ID, Amount: amount, Type: entity.TxTypeWithdrawal})
	if err != nil {
		return WithdrawResult{}, err
	}

	return WithdrawResult{Account: acc, Transaction: tx}, u.persist(ctx, saveAccounts, saveTransactions)
}

// Transfer debits fromID then credits toID and logs one transaction per leg.
// Missing accounts are reported before funds. fromID may equal toID: both
// legs apply to the same account and its balance ends where it started.
func (u *Usecase) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (TransferResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	from, errFrom := u.store.Account(ctx, fromID)
	_, errTo := u.store.Account(ctx, toID)
	if errFrom != nil || errTo != nil {
		return TransferResult{}, mapStoreErr(errors.Join(errFrom, errTo), errEitherNotFound)
	}

	if !from.CanDebit(amount) {
		return TransferResult{}, errInsufficient
	}

	from.Balance = from.Balance.Sub(amount)
	if err := u.store.SetBalance(ctx, from.ID, from.Balance); err != nil {
		return TransferResult{}, normalizeErr(err)
	}

	// read after the debit so a self-transfer credits the debited balance
	to, err := u.store.Account(ctx, toID)
	if err != nil {
		return TransferResult{}, normalizeErr(err)
	}
	to.Balance = to.Balance.Add(amount)
	if err := u.store.SetBalance(ctx, to.ID, to.Balance); err != nil {
		return TransferResult{}, normalizeErr(err)
	}
	if from.ID == to.ID {
		from.Balance = to.Balance
	}

	debit, err := u.record(ctx, entity.Transaction{AccountID: from.ID, Amount: amount, Type: entity.TxTypeTransferOut, Counterparty: to.ID})
	if err != nil {
		return TransferResult{}, err
	}
	credit, err := u.record(ctx, entity.Transaction{AccountID: to.ID, Amount: amount, Type: entity.TxTypeTransferIn, Counterparty: from.ID})
	if err != nil {
		return TransferResult{}, err
	}

	return TransferResult{From: from, To: to, Debit: debit, Credit: credit}, u.persist(ctx, saveAccounts, saveTransactions)
}

func (u *Usecase) Balance(ctx context.Context, accountID int64) (BalanceResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc, err := u.store.Account(ctx, accountID)
	if err != nil {
		return BalanceResult{}, mapStoreErr(err, errAccountNotFound)
	}

	return BalanceResult{AccountID: acc.ID, Balance: acc.Balance}, nil
}

func (u *Usecase) LoginCustomer(ctx context.Context, customerID int64) (entity.Customer, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	c, err := u.store.Customer(ctx, customerID)
	if err != nil {
		return entity.Customer{}, mapStoreErr(err, errCustomerNotFound)
	}

	return c, nil
}

func (u *Usecase) Customers(ctx context.Context) []entity.Customer {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.store.Customers(ctx)
}

func (u *Usecase) Accounts(ctx context.Context) []entity.Account {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.store.Accounts(ctx)
}

func (u *Usecase) Transactions(ctx context.Context) []entity.Transaction {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.store.Transactions(ctx)
}

// CustomerAccounts lists the accounts owned by customerID in insertion order.
func (u *Usecase) CustomerAccounts(ctx context.Context, customerID int64) []entity.Account {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []entity.Account
	for _, a := range u.store.Accounts(ctx) {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out
}

// AccountTransactions lists the log entries of one account in insertion order.
func (u *Usecase) AccountTransactions(ctx context.Context, accountID int64) ([]entity.Transaction, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := u.store.Account(ctx, accountID); err != nil {
		return nil, mapStoreErr(err, errAccountNotFound)
	}

	var out []entity.Transaction
	for _, tx := range u.store.Transactions(ctx) {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (u *Usecase) record(ctx context.Context, tx entity.Transaction) (entity.Transaction, error) {
	tx, err := u.store.AppendTransaction(ctx, tx)
	if err != nil {
		return entity.Transaction{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "transaction recorded", "tx_id", tx.ID, "account_id", tx.AccountID, "type", tx.Type, "amount", tx.Amount.String())

	if u.events != nil && u.eventID != nil {
		event := entity.LedgerEvent{EventID: u.eventID.Generate(), Transaction: tx}
		if pubErr := u.events.Publish(ctx, event); pubErr != nil {
			slog.WarnContext(ctx, "failed to publish ledger event", "event_id", event.EventID, "tx_id", tx.ID, "error", pubErr)
		}
	}

	return tx, nil
}

type collection int

const (
	saveCustomers collection = iota
	saveAccounts
	saveTransactions
)

func (c collection) String() string {
	switch c {
	case saveCustomers:
		return "customers"
	case saveAccounts:
		return "accounts"
	default:
		return "transactions"
	}
}

// persist writes each collection in order. A failure does not stop the
// remaining writes and does not undo the in-memory change.
func (u *Usecase) persist(ctx context.Context, collections ...collection) error {
	if u.repo == nil {
		return nil
	}

	var failed []string
	var errs []error
	for _, c := range collections {
		var err error
		switch c {
		case saveCustomers:
			err = u.repo.SaveCustomers(ctx, u.store.Customers(ctx))
		case saveAccounts:
			err = u.repo.SaveAccounts(ctx, u.store.Accounts(ctx))
		case saveTransactions:
			err = u.repo.SaveTransactions(ctx, u.store.Transactions(ctx))
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to save ledger collection", "collection", c.String(), "error", err)
			failed = append(failed, c.String())
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return pkgerror.NewUnavailable("Error saving "+strings.Join(failed, " and "), errors.Join(errs...))
}
