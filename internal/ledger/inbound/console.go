package inbound

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gobank/internal/ledger/auth"
	"github.com/shandysiswandi/gobank/internal/ledger/usecase"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gobank/internal/pkg/pkglog"
	"github.com/shandysiswandi/gobank/internal/pkg/pkguid"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidChoice  = "Invalid choice. Please enter a number from the menu."
	msgInvalidNumber  = "Invalid input. Please enter a whole number."
	msgInvalidAmount  = "Invalid amount. Please enter a number."
	msgExit           = "Exiting the banking application."
	msgLogout         = "Logging out..."
	miniStatementSize = 5
)

var errInputClosed = errors.New("console input closed")

type ConsoleDependency struct {
	UC       uc
	Verifier auth.Verifier
	In       io.Reader
	Out      io.Writer
	ID       pkguid.StringID
}

// Console is the interactive text front end. It reads one answer per line.
type Console struct {
	uc       uc
	verifier auth.Verifier
	in       io.Reader
	out      io.Writer
	id       pkguid.StringID
	lines    <-chan string
}

func NewConsole(dep ConsoleDependency) *Console {
	if dep.ID == nil {
		dep.ID = pkguid.NewPrefixedUUID("cli-")
	}

	return &Console{
		uc:       dep.UC,
		verifier: dep.Verifier,
		in:       dep.In,
		out:      dep.Out,
		id:       dep.ID,
	}
}

// Run drives the login menu until the user exits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.lines = c.scan(done)

	for {
		c.println("Welcome to the Bank!")
		c.println("1. Customer Login")
		c.println("2. Banking Official Login")
		c.println("0. Exit")

		choice, err := c.readInt(ctx, "Enter your choice: ", msgInvalidChoice)
		if err != nil {
			return c.stop(ctx, err)
		}

		switch choice {
		case 1:
			err = c.customerLogin(ctx)
		case 2:
			err = c.officialLogin(ctx)
		case 0:
			c.println(msgExit)
			return nil
		default:
			c.println(msgInvalidChoice)
		}

		if err != nil {
			return c.stop(ctx, err)
		}
	}
}

func (c *Console) stop(ctx context.Context, err error) error {
	if errors.Is(err, errInputClosed) {
		c.println("")
		c.println(msgExit)
		return nil
	}
	if ctx.Err() != nil {
		slog.InfoContext(ctx, "console stopped", "because", ctx.Err())
		return nil
	}
	return err
}

func (c *Console) customerLogin(ctx context.Context) error {
	id, err := c.readInt(ctx, "Enter your customer ID: ", msgInvalidNumber)
	if err != nil {
		return err
	}

	customer, err := c.uc.LoginCustomer(ctx, id)
	if err != nil {
		c.println(sentence(err))
		return nil
	}

	c.println("Customer login successful!")

	session := Session{ID: c.id.Generate(), Role: RoleCustomer, CustomerID: customer.ID}
	sctx := pkglog.SetCorrelationID(ctx, session.ID)
	slog.InfoContext(sctx, "session started", "role", session.Role.String(), "customer_id", customer.ID)

	return c.customerMenu(sctx, session)
}

func (c *Console) officialLogin(ctx context.Context) error {
	password, err := c.readLine(ctx, "Enter password for banking official: ")
	if err != nil {
		return err
	}

	if err := c.verifier.Verify(ctx, password); err != nil {
		if pkgerror.CodeOf(err) == pkgerror.CodeUnauthorized {
			c.println("Incorrect password.")
		} else {
			slog.ErrorContext(ctx, "failed to verify official password", "error", err)
			c.println("Unable to verify password.")
		}
		return nil
	}

	c.println("Banking official login successful!")

	session := Session{ID: c.id.Generate(), Role: RoleOfficial}
	sctx := pkglog.SetCorrelationID(ctx, session.ID)
	slog.InfoContext(sctx, "session started", "role", session.Role.String())

	return c.officialMenu(sctx, session)
}

func (c *Console) customerMenu(ctx context.Context, s Session) error {
	for {
		c.println("")
		c.println("--- Customer Menu ---")
		c.println("1. Open Account")
		c.println("2. Deposit")
		c.println("3. Withdraw")
		c.println("4. Transfer")
		c.println("5. View Balance")
		c.println("6. Mini Statement")
		c.println("0. Logout")

		choice, err := c.readInt(ctx, "Enter your choice: ", msgInvalidChoice)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.openAccount(ctx, s)
		case 2:
			err = c.deposit(ctx, s)
		case 3:
			err = c.withdraw(ctx, s)
		case 4:
			err = c.transfer(ctx, s)
		case 5:
			err = c.viewBalance(ctx, s)
		case 6:
			c.miniStatement(ctx, s)
		case 0:
			c.println(msgLogout)
			slog.InfoContext(ctx, "session ended", "role", s.Role.String())
			return nil
		default:
			c.println(msgInvalidChoice)
		}

		if err != nil {
			return err
		}
	}
}

func (c *Console) officialMenu(ctx context.Context, s Session) error {
	for {
		c.println("")
		c.println("--- Banking Official Menu ---")
		c.println("1. Add Customer")
		c.println("2. Display Customers")
		c.println("3. Display Accounts")
		c.println("4. Display Transactions")
		c.println("0. Logout")

		choice, err := c.readInt(ctx, "Enter your choice: ", msgInvalidChoice)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.addCustomer(ctx)
		case 2:
			c.displayCustomers(ctx)
		case 3:
			c.displayAccounts(ctx)
		case 4:
			c.displayTransactions(ctx)
		case 0:
			c.println(msgLogout)
			slog.InfoContext(ctx, "session ended", "role", s.Role.String())
			return nil
		default:
			c.println(msgInvalidChoice)
		}

		if err != nil {
			return err
		}
	}
}

func (c *Console) openAccount(ctx context.Context, s Session) error {
	initial, err := c.readAmount(ctx, "Enter initial balance: ")
	if err != nil {
		return err
	}

	acc, err := c.uc.OpenAccount(ctx, s.CustomerID, initial)
	if !c.applied(err) {
		return nil
	}

	c.printf("Account opened successfully with account number: %d\n", acc.ID)
	c.warnUnsaved(err)
	return nil
}

func (c *Console) deposit(ctx context.Context, s Session) error {
	c.listOwnAccounts(ctx, s)
	id, err := c.readInt(ctx, "Enter account ID: ", msgInvalidNumber)
	if err != nil {
		return err
	}
	amount, err := c.readAmount(ctx, "Enter amount to deposit: ")
	if err != nil {
		return err
	}

	_, err = c.uc.Deposit(ctx, id, amount)
	if !c.applied(err) {
		return nil
	}

	c.printf("Deposited %s into account %d\n", formatMoney(amount), id)
	c.warnUnsaved(err)
	return nil
}

func (c *Console) withdraw(ctx context.Context, s Session) error {
	c.listOwnAccounts(ctx, s)
	id, err := c.readInt(ctx, "Enter account ID: ", msgInvalidNumber)
	if err != nil {
		return err
	}
	amount, err := c.readAmount(ctx, "Enter amount to withdraw: ")
	if err != nil {
		return err
	}

	_, err = c.uc.Withdraw(ctx, id, amount)
	if !c.applied(err) {
		return nil
	}

	c.printf("Withdrawn %s from account %d\n", formatMoney(amount), id)
	c.warnUnsaved(err)
	return nil
}

func (c *Console) transfer(ctx context.Context, s Session) error {
	c.listOwnAccounts(ctx, s)
	from, err := c.readInt(ctx, "Enter account ID to transfer from: ", msgInvalidNumber)
	if err != nil {
		return err
	}
	to, err := c.readInt(ctx, "Enter account ID to transfer to: ", msgInvalidNumber)
	if err != nil {
		return err
	}
	amount, err := c.readAmount(ctx, "Enter amount to transfer: ")
	if err != nil {
		return err
	}

	_, err = c.uc.Transfer(ctx, from, to, amount)
	if !c.applied(err) {
		return nil
	}

	c.printf("Transferred %s from account %d to account %d\n", formatMoney(amount), from, to)
	c.warnUnsaved(err)
	return nil
}

func (c *Console) viewBalance(ctx context.Context, s Session) error {
	c.listOwnAccounts(ctx, s)
	id, err := c.readInt(ctx, "Enter account ID: ", msgInvalidNumber)
	if err != nil {
		return err
	}

	res, err := c.uc.Balance(ctx, id)
	if err != nil {
		c.println(sentence(err))
		return nil
	}

	c.printf("Account balance: %s\n", formatMoney(res.Balance))
	return nil
}

// listOwnAccounts shows the session customer's accounts ahead of an account
// ID prompt.
func (c *Console) listOwnAccounts(ctx context.Context, s Session) {
	accounts := c.uc.CustomerAccounts(ctx, s.CustomerID)
	if len(accounts) == 0 {
		c.println("You have no accounts.")
		return
	}

	c.println("Your accounts:")
	for _, acc := range accounts {
		c.printf("  %d - Balance: %s\n", acc.ID, formatMoney(acc.Balance))
	}
}

// miniStatement prints every account of the session's customer with its
// latest transactions.
func (c *Console) miniStatement(ctx context.Context, s Session) {
	accounts := c.uc.CustomerAccounts(ctx, s.CustomerID)
	if len(accounts) == 0 {
		c.println("No accounts.")
		return
	}

	for _, acc := range accounts {
		c.printf("Account %d - Balance: %s\n", acc.ID, formatMoney(acc.Balance))

		txs, err := c.uc.AccountTransactions(ctx, acc.ID)
		if err != nil {
			c.println("  " + sentence(err))
			continue
		}
		if len(txs) == 0 {
			c.println("  No transactions.")
			continue
		}
		if len(txs) > miniStatementSize {
			txs = txs[len(txs)-miniStatementSize:]
		}
		for _, tx := range txs {
			c.printf("  %d - %s: %s\n", tx.ID, tx.Label(), formatMoney(tx.Amount))
		}
	}
}

func (c *Console) addCustomer(ctx context.Context) error {
	name, err := c.readLine(ctx, "Enter customer name: ")
	if err != nil {
		return err
	}

	customer, err := c.uc.AddCustomer(ctx, name)
	if !c.applied(err) {
		return nil
	}

	c.printf("Customer added successfully with ID: %d\n", customer.ID)
	c.warnUnsaved(err)
	return nil
}

func (c *Console) displayCustomers(ctx context.Context) {
	customers := c.uc.Customers(ctx)
	if len(customers) == 0 {
		c.println("No customers.")
		return
	}

	c.println("Customers:")
	for _, cu := range customers {
		c.printf("%d - %s\n", cu.ID, cu.Name)
	}
}

func (c *Console) displayAccounts(ctx context.Context) {
	accounts := c.uc.Accounts(ctx)
	if len(accounts) == 0 {
		c.println("No accounts.")
		return
	}

	c.println("Accounts:")
	for _, a := range accounts {
		c.printf("%d - Customer ID: %d, Balance: %s\n", a.ID, a.CustomerID, formatMoney(a.Balance))
	}
}

func (c *Console) displayTransactions(ctx context.Context) {
	txs := c.uc.Transactions(ctx)
	if len(txs) == 0 {
		c.println("No transactions.")
		return
	}

	c.println("Transactions:")
	for _, tx := range txs {
		c.printf("%d - Account ID: %d, Amount: %s, Type: %s\n", tx.ID, tx.AccountID, formatMoney(tx.Amount), tx.Label())
	}
}

// applied reports whether the operation took effect. Errors other than a
// failed save are printed here.
func (c *Console) applied(err error) bool {
	if err == nil || usecase.IsSaveFailure(err) {
		return true
	}
	c.println(sentence(err))
	return false
}

func (c *Console) warnUnsaved(err error) {
	if err != nil {
		c.println("Warning: " + sentence(err))
	}
}

func (c *Console) scan(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	}
}

func (c *Console) readInt(ctx context.Context, prompt, invalid string) (int64, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}

		v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return v, nil
		}
		c.println(invalid)
	}
}

func (c *Console) readAmount(ctx context.Context, prompt string) (decimal.Decimal, error) {
	for {
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return decimal.Zero, err
		}

		v, err := decimal.NewFromString(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		c.println(msgInvalidAmount)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// sentence renders the user-facing message of err with a closing period.
func sentence(err error) string {
	msg := pkgerror.MsgOf(err)
	if strings.HasSuffix(msg, ".") {
		return msg
	}
	return msg + "."
}
