package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"github.com/shopspring/decimal"
)

// RecordStore keeps the three ledger collections in insertion order together
// with their next-ID counters.
//
// Lookups go through an ID index that remembers the first occurrence of each
// ID, so duplicates loaded from a corrupted file stay in the sequence but the
// earliest one wins.
type RecordStore struct {
	mu sync.RWMutex

	customers    []entity.Customer
	accounts     []entity.Account
	transactions []entity.Transaction

	customerIdx map[int64]int
	accountIdx  map[int64]int

	nextCustomerID    int64
	nextAccountID     int64
	nextTransactionID int64
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		customerIdx:       make(map[int64]int),
		accountIdx:        make(map[int64]int),
		nextCustomerID:    1,
		nextAccountID:     1,
		nextTransactionID: 1,
	}
}

// Seed appends previously persisted records and raises each counter to
// max(ID)+1.
func (s *RecordStore) Seed(ctx context.Context, customers []entity.Customer, accounts []entity.Account, txs []entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range customers {
		s.appendCustomer(c)
		s.nextCustomerID = max(s.nextCustomerID, c.ID+1)
	}
	for _, a := range accounts {
		s.appendAccount(a)
		s.nextAccountID = max(s.nextAccountID, a.ID+1)
	}
	for _, tx := range txs {
		s.transactions = append(s.transactions, tx)
		s.nextTransactionID = max(s.nextTransactionID, tx.ID+1)
	}
}

func (s *RecordStore) AddCustomer(ctx context.Context, name string) (entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := entity.Customer{ID: s.nextCustomerID, Name: name}
	s.nextCustomerID++
	s.appendCustomer(c)

	return c, nil
}

func (s *RecordStore) AddAccount(ctx context.Context, customerID int64, balance decimal.Decimal) (entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := entity.Account{ID: s.nextAccountID, CustomerID: customerID, Balance: balance}
	s.nextAccountID++
	s.appendAccount(a)

	return a, nil
}

// AppendTransaction assigns the next transaction ID to tx and logs it.
func (s *RecordStore) AppendTransaction(ctx context.Context, tx entity.Transaction) (entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.nextTransactionID
	s.nextTransactionID++
	s.transactions = append(s.transactions, tx)

	return tx, nil
}

func (s *RecordStore) Customer(ctx context.Context, id int64) (entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.customerIdx[id]
	if !ok {
		return entity.Customer{}, pkgerror.ErrNotFound
	}

	return s.customers[i], nil
}

func (s *RecordStore) Account(ctx context.Context, id int64) (entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.accountIdx[id]
	if !ok {
		return entity.Account{}, pkgerror.ErrNotFound
	}

	return s.accounts[i], nil
}

func (s *RecordStore) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.accountIdx[id]
	if !ok {
		return pkgerror.ErrNotFound
	}
	s.accounts[i].Balance = balance

	return nil
}

func (s *RecordStore) Customers(ctx context.Context) []entity.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.Customer(nil), s.customers...)
}

func (s *RecordStore) Accounts(ctx context.Context) []entity.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.Account(nil), s.accounts...)
}

func (s *RecordStore) Transactions(ctx context.Context) []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.Transaction(nil), s.transactions...)
}

func (s *RecordStore) appendCustomer(c entity.Customer) {
	if _, exists := s.customerIdx[c.ID]; !exists {
		s.customerIdx[c.ID] = len(s.customers)
	}
	s.customers = append(s.customers, c)
}

func (s *RecordStore) appendAccount(a entity.Account) {
	if _, exists := s.accountIdx[a.ID]; !exists {
		s.accountIdx[a.ID] = len(s.accounts)
	}
	s.accounts = append(s.accounts, a)
}
