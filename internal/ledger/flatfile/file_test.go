package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFilesLoadMissingIsEmpty(t *testing.T) {
	files := New(Config{Dir: t.TempDir()})

	customers, accounts, txs, err := files.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if len(customers) != 0 || len(accounts) != 0 || len(txs) != 0 {
		t.Fatalf("Load() expected empty collections, got %d/%d/%d", len(customers), len(accounts), len(txs))
	}
}

func TestFilesRoundTrip(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		dir := t.TempDir()
		files := New(Config{Dir: dir, AtomicWrite: atomic})
		ctx := context.Background()

		customers := []entity.Customer{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Doe, Jane"}}
		accounts := []entity.Account{
			{ID: 1, CustomerID: 1, Balance: decimal.RequireFromString("145.5")},
			{ID: 2, CustomerID: 2, Balance: decimal.RequireFromString("4.5")},
		}
		txs := []entity.Transaction{
			{ID: 1, AccountID: 1, Amount: decimal.NewFromInt(50), Type: entity.TxTypeDeposit},
			{ID: 2, AccountID: 1, Amount: decimal.RequireFromString("4.5"), Type: entity.TxTypeTransferOut, Counterparty: 2},
			{ID: 3, AccountID: 2, Amount: decimal.RequireFromString("4.5"), Type: entity.TxTypeTransferIn, Counterparty: 1},
		}

		if err := files.SaveCustomers(ctx, customers); err != nil {
			t.Fatalf("SaveCustomers() err = %v", err)
		}
		if err := files.SaveAccounts(ctx, accounts); err != nil {
			t.Fatalf("SaveAccounts() err = %v", err)
		}
		if err := files.SaveTransactions(ctx, txs); err != nil {
			t.Fatalf("SaveTransactions() err = %v", err)
		}

		gotC, gotA, gotT, err := files.Load(ctx)
		if err != nil {
			t.Fatalf("Load() err = %v", err)
		}
		if !reflect.DeepEqual(gotC, customers) {
			t.Fatalf("customers = %+v, want %+v", gotC, customers)
		}
		if len(gotA) != len(accounts) || len(gotT) != len(txs) {
			t.Fatalf("unexpected lengths %d/%d", len(gotA), len(gotT))
		}
		for i := range accounts {
			if gotA[i].ID != accounts[i].ID || !gotA[i].Balance.Equal(accounts[i].Balance) {
				t.Fatalf("account[%d] = %+v, want %+v", i, gotA[i], accounts[i])
			}
		}
		for i := range txs {
			if gotT[i].ID != txs[i].ID || gotT[i].Type != txs[i].Type || gotT[i].Counterparty != txs[i].Counterparty || !gotT[i].Amount.Equal(txs[i].Amount) {
				t.Fatalf("tx[%d] = %+v, want %+v", i, gotT[i], txs[i])
			}
		}

		if _, err := os.Stat(filepath.Join(dir, AccountsFile+".tmp")); !os.IsNotExist(err) {
			t.Fatalf("atomic=%v left a temp file behind: %v", atomic, err)
		}
	}
}

func TestFilesSaveOverwritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	files := New(Config{Dir: dir})
	ctx := context.Background()

	if err := files.SaveCustomers(ctx, []entity.Customer{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}); err != nil {
		t.Fatalf("SaveCustomers() err = %v", err)
	}
	if err := files.SaveCustomers(ctx, []entity.Customer{{ID: 1, Name: "A"}}); err != nil {
		t.Fatalf("SaveCustomers() err = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CustomersFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "1,A\n" {
		t.Fatalf("customers.txt = %q, want %q", data, "1,A\n")
	}
}

func TestFilesLoadMalformedLineFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, AccountsFile, "1,1,100\n2,1,not-a-number\n")

	_, _, _, err := New(Config{Dir: dir}).Load(context.Background())
	if err == nil {
		t.Fatal("Load() expected error")
	}
	if !strings.Contains(err.Error(), AccountsFile+":2") {
		t.Fatalf("Load() error should name file and line, got %q", err.Error())
	}
}

func TestFilesLoadSkipsBlankLinesAndCRLF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CustomersFile, "1,Alice\r\n\r\n2,Bob\r\n")

	customers, _, _, err := New(Config{Dir: dir}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	want := []entity.Customer{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	if !reflect.DeepEqual(customers, want) {
		t.Fatalf("customers = %+v, want %+v", customers, want)
	}
}

func TestFilesSaveUnwritableDir(t *testing.T) {
	files := New(Config{Dir: filepath.Join(t.TempDir(), "missing", "dir")})
	if err := files.SaveAccounts(context.Background(), nil); err == nil {
		t.Fatal("SaveAccounts() expected error for missing directory")
	}
}
