// Command wallet is the interactive front end: a numbered menu over the
// account service, working against the in-memory store. All input
// validation (positive amounts, recognized currency codes) happens here;
// the service trusts its callers on those points.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/adapter/storage"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/config"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/fx"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
)

type menu struct {
	in      *bufio.Scanner
	svc     *service.AccountService
	current uuid.UUID
	hasAcct bool
}

func main() {
	cfg := config.LoadConfig()

	// Keep slog quiet on the terminal; the menu is the interface here.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	slog.SetDefault(logger)

	svc := service.NewAccountService(storage.NewMemoryStore(), fx.NewFixedRates(cfg.USDToCLP))

	m := &menu{in: bufio.NewScanner(os.Stdin), svc: svc}
	m.run()
}

func (m *menu) run() {
	for {
		m.print()
		choice, ok := m.readLine("Option: ")
		if !ok {
			fmt.Println("\nBye!")
			return
		}
		switch choice {
		case "1":
			m.create()
		case "2":
			m.balance()
		case "3":
			m.deposit()
		case "4":
			m.withdraw()
		case "5":
			m.convert()
		case "6":
			m.transactions()
		case "0":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Invalid option.")
		}
	}
}

func (m *menu) print() {
	fmt.Println("\n=== ALKE WALLET ===")
	if m.hasAcct {
		fmt.Println("Account:", m.current)
	} else {
		fmt.Println("Account: (none)")
	}
	fmt.Println("1) Create account")
	fmt.Println("2) Show balance")
	fmt.Println("3) Deposit")
	fmt.Println("4) Withdraw")
	fmt.Println("5) Convert balance USD/CLP")
	fmt.Println("6) Show transactions")
	fmt.Println("0) Exit")
}

func (m *menu) create() {
	name, ok := m.readLine("Name: ")
	if !ok {
		return
	}
	currency, ok := m.readCurrency("Initial currency (USD/CLP): ")
	if !ok {
		return
	}

	a, err := m.svc.CreateAccount(context.Background(), name, currency)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	m.current = a.ID
	m.hasAcct = true
	fmt.Printf("Account created: id=%s owner=%s balance=%s\n", a.ID, a.OwnerName, a.Balance)
}

func (m *menu) balance() {
	id, ok := m.requireAccount()
	if !ok {
		return
	}
	b, err := m.svc.GetBalance(context.Background(), id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Balance:", b)
}

func (m *menu) deposit() {
	id, ok := m.requireAccount()
	if !ok {
		return
	}
	currency, ok := m.readCurrency("Deposit currency (USD/CLP): ")
	if !ok {
		return
	}
	amount, ok := m.readAmount("Amount: ")
	if !ok {
		return
	}

	a, err := m.svc.Deposit(context.Background(), id, domain.NewMoney(amount, currency))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("New balance:", a.Balance)
}

func (m *menu) withdraw() {
	id, ok := m.requireAccount()
	if !ok {
		return
	}
	amount, ok := m.readAmount("Amount: ")
	if !ok {
		return
	}

	a, err := m.svc.Withdraw(context.Background(), id, amount)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("New balance:", a.Balance)
}

func (m *menu) convert() {
	id, ok := m.requireAccount()
	if !ok {
		return
	}
	target, ok := m.readCurrency("Convert to (USD/CLP): ")
	if !ok {
		return
	}

	a, err := m.svc.ConvertAll(context.Background(), id, target)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("New balance:", a.Balance)
}

func (m *menu) transactions() {
	id, ok := m.requireAccount()
	if !ok {
		return
	}
	txs, err := m.svc.GetTransactions(context.Background(), id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(txs) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	for _, t := range txs {
		line := fmt.Sprintf("[%s] %s %s -> balance: %s",
			t.Timestamp.Format("2006-01-02 15:04:05"), t.Type, t.Amount, t.BalanceAfter)
		if t.Notes != "" {
			line += " (" + t.Notes + ")"
		}
		fmt.Println(line)
	}
}

/* Input helpers. They loop until the input is valid, like any teller would. */

func (m *menu) requireAccount() (uuid.UUID, bool) {
	if !m.hasAcct {
		fmt.Println("Create an account first.")
		return uuid.Nil, false
	}
	return m.current, true
}

// readLine reports false once stdin is exhausted; every prompt loop bails
// out on that so a closed stdin ends the session instead of re-prompting.
func (m *menu) readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) readAmount(prompt string) (decimal.Decimal, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err == nil && d.IsPositive() {
			return d, true
		}
		fmt.Println("Invalid amount. Enter a positive number.")
	}
}

func (m *menu) readCurrency(prompt string) (domain.Currency, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return "", false
		}
		c, err := domain.ParseCurrency(s)
		if err == nil {
			return c, true
		}
		fmt.Println("Only USD or CLP.")
	}
}
