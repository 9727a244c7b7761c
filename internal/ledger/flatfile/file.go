package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
)

const (
	CustomersFile    = "customers.txt"
	AccountsFile     = "accounts.txt"
	TransactionsFile = "transactions.txt"
)

// Config selects where the files live and how they are rewritten.
type Config struct {
	Dir string
	// AtomicWrite writes <file>.tmp and renames it over the target instead of
	// truncating the target in place.
	AtomicWrite bool
}

// Files loads and saves the three ledger collections.
type Files struct {
	dir    string
	atomic bool
}

func New(cfg Config) *Files {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}

	return &Files{dir: dir, atomic: cfg.AtomicWrite}
}

// Load reads all three files. A missing file is an empty collection; a
// malformed line fails the whole load.
func (f *Files) Load(ctx context.Context) ([]entity.Customer, []entity.Account, []entity.Transaction, error) {
	customers, err := loadFile(ctx, f.path(CustomersFile), parseCustomer)
	if err != nil {
		return nil, nil, nil, err
	}

	accounts, err := loadFile(ctx, f.path(AccountsFile), parseAccount)
	if err != nil {
		return nil, nil, nil, err
	}

	txs, err := loadFile(ctx, f.path(TransactionsFile), parseTransaction)
	if err != nil {
		return nil, nil, nil, err
	}

	return customers, accounts, txs, nil
}

// SaveCustomers rewrites customers.txt from scratch.
func (f *Files) SaveCustomers(ctx context.Context, customers []entity.Customer) error {
	return saveFile(ctx, f.path(CustomersFile), f.atomic, customers, encodeCustomer)
}

// SaveAccounts rewrites accounts.txt from scratch.
func (f *Files) SaveAccounts(ctx context.Context, accounts []entity.Account) error {
	return saveFile(ctx, f.path(AccountsFile), f.atomic, accounts, encodeAccount)
}

// SaveTransactions rewrites transactions.txt from scratch.
func (f *Files) SaveTransactions(ctx context.Context, txs []entity.Transaction) error {
	return saveFile(ctx, f.path(TransactionsFile), f.atomic, txs, encodeTransaction)
}

func (f *Files) path(name string) string {
	return filepath.Join(f.dir, name)
}

func loadFile[T any](ctx context.Context, path string, parse func(string) (T, error)) ([]T, error) {
	//nolint:gosec // path is built from configuration
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "ledger file not found, starting empty", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var records []T
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	slog.DebugContext(ctx, "ledger file loaded", "path", path, "records", len(records))

	return records, nil
}

func saveFile[T any](ctx context.Context, path string, atomic bool, records []T, encode func(T) string) error {
	target := path
	if atomic {
		target = path + ".tmp"
	}

	//nolint:gosec // path is built from configuration
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	w := bufio.NewWriter(file)
	for _, record := range records {
		if _, err := w.WriteString(encode(record) + "\n"); err != nil {
			_ = file.Close()
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}

	if atomic {
		if err := os.Rename(target, path); err != nil {
			return fmt.Errorf("rename %s: %w", target, err)
		}
	}

	slog.DebugContext(ctx, "ledger file saved", "path", path, "records", len(records))

	return nil
}
