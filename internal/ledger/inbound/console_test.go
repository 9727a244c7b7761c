package inbound

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shandysiswandi/gobank/internal/ledger/store"
	"github.com/shandysiswandi/gobank/internal/ledger/usecase"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"github.com/shopspring/decimal"
)

type testVerifier struct {
	password string
}

func (v testVerifier) Verify(_ context.Context, secret string) error {
	if secret != v.password {
		return pkgerror.NewUnauthorized("Incorrect password.")
	}
	return nil
}

type testSessionID struct{}

func (testSessionID) Generate() string { return "session-1" }

type failingRepo struct{}

func (failingRepo) Load(context.Context) ([]entity.Customer, []entity.Account, []entity.Transaction, error) {
	return nil, nil, nil, nil
}

func (failingRepo) SaveCustomers(context.Context, []entity.Customer) error {
	return errors.New("read-only file system")
}

func (failingRepo) SaveAccounts(context.Context, []entity.Account) error {
	return errors.New("read-only file system")
}

func (failingRepo) SaveTransactions(context.Context, []entity.Transaction) error {
	return errors.New("read-only file system")
}

func newTestLedger(repo usecase.Repository) *usecase.Usecase {
	return usecase.New(usecase.Dependency{Store: store.NewRecordStore(), Repository: repo})
}

func runConsole(t *testing.T, ledger *usecase.Usecase, script string) string {
	t.Helper()

	var out bytes.Buffer
	console := NewConsole(ConsoleDependency{
		UC:       ledger,
		Verifier: testVerifier{password: "admin"},
		In:       strings.NewReader(script),
		Out:      &out,
		ID:       testSessionID{},
	})

	if err := console.Run(context.Background()); err != nil {
		t.Fatalf("run console: %v", err)
	}
	return out.String()
}

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse amount %q: %v", s, err)
	}
	return d
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}

func TestConsoleCustomerScenario(t *testing.T) {
	ledger := newTestLedger(nil)

	out := runConsole(t, ledger, lines(
		"2", "admin", "1", "Alice", "0",
		"1", "1",
		"1", "100",
		"2", "1", "50",
		"3", "1", "200",
		"5", "1",
		"0",
		"0",
	))

	assertContains(t, out,
		"Welcome to the Bank!",
		"Banking official login successful!",
		"Customer added successfully with ID: 1",
		"Customer login successful!",
		"Account opened successfully with account number: 1",
		"Deposited 50.00 into account 1",
		"Insufficient balance.",
		"Account balance: 150.00",
		"Logging out...",
		"Exiting the banking application.",
	)

	txs := ledger.Transactions(context.Background())
	if len(txs) != 1 || txs[0].Type != entity.TxTypeDeposit {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
}

func TestConsoleOpenAccountUsesLoggedInCustomer(t *testing.T) {
	ledger := newTestLedger(nil)
	ctx := context.Background()
	_, _ = ledger.AddCustomer(ctx, "Alice")
	_, _ = ledger.AddCustomer(ctx, "Bob")

	runConsole(t, ledger, lines("1", "2", "1", "10", "0", "0"))

	accounts := ledger.Accounts(ctx)
	if len(accounts) != 1 || accounts[0].CustomerID != 2 {
		t.Fatalf("account should belong to customer 2: %+v", accounts)
	}
}

func TestConsoleTransferAndOfficialListings(t *testing.T) {
	ledger := newTestLedger(nil)
	ctx := context.Background()
	_, _ = ledger.AddCustomer(ctx, "Alice, Jr.")
	_, _ = ledger.OpenAccount(ctx, 1, mustAmount(t, "100"))
	_, _ = ledger.OpenAccount(ctx, 1, mustAmount(t, "0"))

	out := runConsole(t, ledger, lines(
		"1", "1",
		"4", "1", "2", "30",
		"4", "1", "9", "1",
		"0",
		"2", "admin",
		"2", "3", "4",
		"0", "0",
	))

	assertContains(t, out,
		"Transferred 30.00 from account 1 to account 2",
		"One or both accounts not found.",
		"Customers:",
		"1 - Alice, Jr.",
		"1 - Customer ID: 1, Balance: 70.00",
		"2 - Customer ID: 1, Balance: 30.00",
		"1 - Account ID: 1, Amount: 30.00, Type: Transfer to account 2",
		"2 - Account ID: 2, Amount: 30.00, Type: Transfer from account 1",
	)
}

func TestConsoleMiniStatement(t *testing.T) {
	ledger := newTestLedger(nil)
	ctx := context.Background()
	_, _ = ledger.AddCustomer(ctx, "Alice")
	_, _ = ledger.OpenAccount(ctx, 1, mustAmount(t, "0"))
	_, _ = ledger.OpenAccount(ctx, 1, mustAmount(t, "5"))
	for i := 0; i < 7; i++ {
		_, _ = ledger.Deposit(ctx, 1, mustAmount(t, "1"))
	}

	out := runConsole(t, ledger, lines("1", "1", "6", "0", "0"))

	assertContains(t, out,
		"Account 1 - Balance: 7.00",
		"  7 - Deposit: 1.00",
		"  3 - Deposit: 1.00",
		"Account 2 - Balance: 5.00",
		"  No transactions.",
	)
	if strings.Contains(out, "  2 - Deposit") {
		t.Fatalf("mini statement should keep only the latest %d entries\n%s", miniStatementSize, out)
	}
}

func TestConsoleListsOwnAccountsBeforeAccountPrompt(t *testing.T) {
	ledger := newTestLedger(nil)
	ctx := context.Background()
	_, _ = ledger.AddCustomer(ctx, "Alice")
	_, _ = ledger.AddCustomer(ctx, "Bob")
	_, _ = ledger.OpenAccount(ctx, 1, mustAmount(t, "12.5"))
	_, _ = ledger.OpenAccount(ctx, 2, mustAmount(t, "3"))

	out := runConsole(t, ledger, lines("1", "1", "5", "1", "0", "0"))

	listing := strings.Index(out, "Your accounts:\n  1 - Balance: 12.50\n")
	prompt := strings.Index(out, "Enter account ID: ")
	if listing < 0 || prompt < 0 || listing > prompt {
		t.Fatalf("own accounts should be listed before the prompt\n%s", out)
	}
	if strings.Contains(out, "  2 - Balance: 3.00") {
		t.Fatalf("listing should not show other customers' accounts\n%s", out)
	}

	out = runConsole(t, ledger, lines("1", "2", "2", "2", "1", "0", "0"))
	assertContains(t, out, "Your accounts:\n  2 - Balance: 3.00\n", "Deposited 1.00 into account 2")
}

func TestConsoleListsNoAccounts(t *testing.T) {
	ledger := newTestLedger(nil)
	_, _ = ledger.AddCustomer(context.Background(), "Alice")

	out := runConsole(t, ledger, lines("1", "1", "3", "1", "5", "0", "0"))

	assertContains(t, out, "You have no accounts.", "Account not found.")
}

func TestConsoleRejectsBadInput(t *testing.T) {
	ledger := newTestLedger(nil)

	out := runConsole(t, ledger, lines(
		"abc", "9",
		"1", "x", "42",
		"2", "wrong",
		"0",
	))

	if got := strings.Count(out, msgInvalidChoice); got != 2 {
		t.Fatalf("expected 2 invalid choice messages, got %d\n%s", got, out)
	}
	assertContains(t, out,
		msgInvalidNumber,
		"Invalid customer ID.",
		"Incorrect password.",
	)
}

func TestConsoleReportsSaveFailureAfterSuccess(t *testing.T) {
	ledger := newTestLedger(failingRepo{})

	out := runConsole(t, ledger, lines("2", "admin", "1", "Alice", "0", "0"))

	assertContains(t, out,
		"Customer added successfully with ID: 1",
		"Warning: Error saving customers.",
	)
	if got := len(ledger.Customers(context.Background())); got != 1 {
		t.Fatalf("customer should be kept in memory, got %d", got)
	}
}

func TestConsoleExitsOnEOF(t *testing.T) {
	ledger := newTestLedger(nil)
	_, _ = ledger.AddCustomer(context.Background(), "Alice")

	out := runConsole(t, ledger, lines("1", "1", "2", "1"))

	assertContains(t, out, msgExit)
}

func TestConsoleStopsWhenContextCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	console := NewConsole(ConsoleDependency{
		UC:       newTestLedger(nil),
		Verifier: testVerifier{},
		In:       pr,
		Out:      &out,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- console.Run(ctx) }()

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancel")
	}
}
