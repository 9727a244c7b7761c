package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shopspring/decimal"
)

const (
	legacyTransferTo   = "Transfer to account "
	legacyTransferFrom = "Transfer from account "
)

func encodeCustomer(c entity.Customer) string {
	return strconv.FormatInt(c.ID, 10) + "," + c.Name
}

func encodeAccount(a entity.Account) string {
	return strconv.FormatInt(a.ID, 10) + "," + strconv.FormatInt(a.CustomerID, 10) + "," + a.Balance.String()
}

func encodeTransaction(tx entity.Transaction) string {
	line := strconv.FormatInt(tx.ID, 10) + "," +
		strconv.FormatInt(tx.AccountID, 10) + "," +
		tx.Amount.String() + "," +
		string(tx.Type)
	if tx.Type.IsTransfer() {
		line += "," + strconv.FormatInt(tx.Counterparty, 10)
	}
	return line
}

func parseCustomer(line string) (entity.Customer, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return entity.Customer{}, fmt.Errorf("expected 2 fields, got %d", len(parts))
	}

	id, err := parseID(parts[0])
	if err != nil {
		return entity.Customer{}, err
	}

	return entity.Customer{ID: id, Name: parts[1]}, nil
}

func parseAccount(line string) (entity.Account, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return entity.Account{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}

	id, err := parseID(parts[0])
	if err != nil {
		return entity.Account{}, err
	}

	customerID, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return entity.Account{}, fmt.Errorf("invalid customer id: %w", err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return entity.Account{}, fmt.Errorf("invalid balance: %w", err)
	}

	return entity.Account{ID: id, CustomerID: customerID, Balance: balance}, nil
}

func parseTransaction(line string) (entity.Transaction, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return entity.Transaction{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(parts))
	}

	id, err := parseID(parts[0])
	if err != nil {
		return entity.Transaction{}, err
	}

	accountID, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("invalid account id: %w", err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	tx := entity.Transaction{ID: id, AccountID: accountID, Amount: amount}

	if len(parts) == 5 {
		tx.Type = entity.TxType(strings.TrimSpace(parts[3]))
		if !tx.Type.Valid() {
			return entity.Transaction{}, fmt.Errorf("invalid tx type: %s", parts[3])
		}
		if !tx.Type.IsTransfer() {
			return entity.Transaction{}, fmt.Errorf("counterparty given for %q", parts[3])
		}
		tx.Counterparty, err = strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
		if err != nil {
			return entity.Transaction{}, fmt.Errorf("invalid counterparty: %w", err)
		}
		return tx, nil
	}

	tx.Type, tx.Counterparty, err = parseTxType(strings.TrimSpace(parts[3]))
	if err != nil {
		return entity.Transaction{}, err
	}

	return tx, nil
}

// parseTxType reads the type column of a 4-field line, accepting the older
// free-form transfer labels.
func parseTxType(value string) (entity.TxType, int64, error) {
	switch {
	case value == string(entity.TxTypeDeposit):
		return entity.TxTypeDeposit, 0, nil
	case value == string(entity.TxTypeWithdrawal):
		return entity.TxTypeWithdrawal, 0, nil
	case strings.HasPrefix(value, legacyTransferTo):
		id, err := strconv.ParseInt(strings.TrimPrefix(value, legacyTransferTo), 10, 64)
		if err != nil {
			return "", 0, fmt.Errorf("invalid transfer label: %s", value)
		}
		return entity.TxTypeTransferOut, id, nil
	case strings.HasPrefix(value, legacyTransferFrom):
		id, err := strconv.ParseInt(strings.TrimPrefix(value, legacyTransferFrom), 10, 64)
		if err != nil {
			return "", 0, fmt.Errorf("invalid transfer label: %s", value)
		}
		return entity.TxTypeTransferIn, id, nil
	default:
		return "", 0, fmt.Errorf("invalid tx type: %s", value)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid id: %d is not positive", id)
	}
	return id, nil
}
