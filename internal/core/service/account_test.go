package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/adapter/storage"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/fx"
)

// sequentialIDs yields uuid-00000000-...-0001, -0002, ... so tests can pin
// the ids the service generates. Safe for concurrent use.
func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
	}
}

// tickingClock advances one second per call from a fixed origin. Safe for
// concurrent use.
func tickingClock() Clock {
	var mu sync.Mutex
	t := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestService(t *testing.T, opts ...Option) *AccountService {
	t.Helper()
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(tickingClock()),
	}
	rates := fx.NewFixedRates(decimal.NewFromInt(fx.DefaultUSDToCLP))
	return NewAccountService(storage.NewMemoryStore(), rates, append(base, opts...)...)
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func assertBalance(t *testing.T, svc *AccountService, id uuid.UUID, want string, currency domain.Currency) {
	t.Helper()
	b, err := svc.GetBalance(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if b.Currency != currency || b.Amount.StringFixed(domain.Scale) != want {
		t.Fatalf("balance = %s, want %s %s", b, want, currency)
	}
}

func TestCreateAccount(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.CreateAccount(context.Background(), "Ana", domain.CLP)
	if err != nil {
		t.Fatal(err)
	}
	if a.OwnerName != "Ana" {
		t.Errorf("owner = %q", a.OwnerName)
	}
	if a.Currency() != domain.CLP || !a.Balance.Amount.IsZero() {
		t.Errorf("new account balance = %s, want 0.00 CLP", a.Balance)
	}
	if len(a.Transactions) != 0 {
		t.Errorf("new account log has %d entries, want 0", len(a.Transactions))
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetBalanceUnknownAccount(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.GetBalance(context.Background(), uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestDepositNativeCurrencyIsExact(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "10.10"), domain.USD))
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Amount.StringFixed(domain.Scale) != "10.10" {
		t.Fatalf("balance = %s, want 10.10 USD", got.Balance)
	}

	tx := got.Transactions[0]
	if tx.Type != domain.TypeDeposit {
		t.Errorf("tx type = %s", tx.Type)
	}
	if !tx.Amount.Equal(domain.NewMoney(mustDec(t, "10.10"), domain.USD)) {
		t.Errorf("tx amount = %s, want 10.10 USD", tx.Amount)
	}
	if !tx.BalanceAfter.Equal(got.Balance) {
		t.Errorf("tx balance_after = %s, balance = %s", tx.BalanceAfter, got.Balance)
	}
}

func TestDepositForeignCurrencyConverts(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.CLP)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "100"), domain.USD))
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Currency != domain.CLP || got.Balance.Amount.StringFixed(domain.Scale) != "90000.00" {
		t.Fatalf("balance = %s, want 90000.00 CLP", got.Balance)
	}

	// The log records the converted amount, in the account currency.
	tx := got.Transactions[0]
	if tx.Amount.Currency != domain.CLP || tx.Amount.Amount.StringFixed(domain.Scale) != "90000.00" {
		t.Fatalf("tx amount = %s, want 90000.00 CLP", tx.Amount)
	}
}

func TestWithdrawExactBalanceDrainsToZero(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "25.50"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Withdraw(context.Background(), a.ID, mustDec(t, "25.50"))
	if err != nil {
		t.Fatalf("withdrawing the exact balance must succeed: %v", err)
	}
	if !got.Balance.Amount.IsZero() {
		t.Fatalf("balance = %s, want 0.00 USD", got.Balance)
	}
}

func TestWithdrawOverdraftFailsAndLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "25.50"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	_, err = svc.Withdraw(context.Background(), a.ID, mustDec(t, "25.51"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	assertBalance(t, svc, a.ID, "25.50", domain.USD)
	txs, err := svc.GetTransactions(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Fatalf("failed withdrawal must not append to the log; got %d entries", len(txs))
	}
}

func TestConvertAllToSameCurrencyIsNoOp(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "10"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ConvertAll(context.Background(), a.ID, domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Amount.StringFixed(domain.Scale) != "10.00" || got.Balance.Currency != domain.USD {
		t.Fatalf("balance changed on no-op convert: %s", got.Balance)
	}
	if len(got.Transactions) != 1 {
		t.Fatalf("no-op convert must not append to the log; got %d entries", len(got.Transactions))
	}
}

func TestConvertAllSwitchesCurrency(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.CreateAccount(context.Background(), "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(context.Background(), a.ID, domain.NewMoney(mustDec(t, "100"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ConvertAll(context.Background(), a.ID, domain.CLP)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Currency != domain.CLP || got.Balance.Amount.StringFixed(domain.Scale) != "90000.00" {
		t.Fatalf("balance = %s, want 90000.00 CLP", got.Balance)
	}

	tx := got.Transactions[len(got.Transactions)-1]
	if tx.Type != domain.TypeConvert {
		t.Errorf("tx type = %s, want CONVERT", tx.Type)
	}
	if !tx.Amount.Equal(got.Balance) || !tx.BalanceAfter.Equal(got.Balance) {
		t.Errorf("convert entry amount=%s balance_after=%s, want both %s", tx.Amount, tx.BalanceAfter, got.Balance)
	}
	if tx.Notes == "" {
		t.Error("convert entry should carry a note")
	}
}

// The Ana scenario, end to end: CLP account, cross-currency deposit,
// withdrawal, then a full conversion to USD.
func TestFullScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, "Ana", domain.CLP)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Deposit(ctx, a.ID, domain.NewMoney(mustDec(t, "50"), domain.USD)); err != nil {
		t.Fatal(err)
	}
	assertBalance(t, svc, a.ID, "45000.00", domain.CLP)

	if _, err := svc.Withdraw(ctx, a.ID, mustDec(t, "10000")); err != nil {
		t.Fatal(err)
	}
	assertBalance(t, svc, a.ID, "35000.00", domain.CLP)

	if _, err := svc.ConvertAll(ctx, a.ID, domain.USD); err != nil {
		t.Fatal(err)
	}
	assertBalance(t, svc, a.ID, "38.89", domain.USD)

	txs, err := svc.GetTransactions(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantTypes := []domain.TransactionType{domain.TypeDeposit, domain.TypeWithdraw, domain.TypeConvert}
	if len(txs) != len(wantTypes) {
		t.Fatalf("log has %d entries, want %d", len(txs), len(wantTypes))
	}
	for i, want := range wantTypes {
		if txs[i].Type != want {
			t.Errorf("txs[%d].Type = %s, want %s", i, txs[i].Type, want)
		}
		if !txs[i].BalanceAfter.Currency.Valid() {
			t.Errorf("txs[%d] has invalid currency %q", i, txs[i].BalanceAfter.Currency)
		}
	}
	// Timestamps come from the injected clock and must be non-decreasing.
	for i := 1; i < len(txs); i++ {
		if txs[i].Timestamp.Before(txs[i-1].Timestamp) {
			t.Errorf("txs[%d] timestamp precedes txs[%d]", i, i-1)
		}
	}
}

func TestTransactionsAreIsolatedPerAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateAccount(ctx, "Ana", domain.USD)
	b, _ := svc.CreateAccount(ctx, "Beto", domain.USD)

	if _, err := svc.Deposit(ctx, a.ID, domain.NewMoney(mustDec(t, "1"), domain.USD)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(ctx, b.ID, domain.NewMoney(mustDec(t, "2"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	txsA, err := svc.GetTransactions(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	txsB, err := svc.GetTransactions(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txsA) != 1 || len(txsB) != 1 {
		t.Fatalf("logs leaked across accounts: a=%d b=%d", len(txsA), len(txsB))
	}
	if txsA[0].Amount.Amount.StringFixed(domain.Scale) != "1.00" {
		t.Errorf("account a got account b's entry: %s", txsA[0].Amount)
	}
}

func TestEventsArePublished(t *testing.T) {
	events := make(chan Event, 8)
	svc := newTestService(t, WithEvents(events))
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Deposit(ctx, a.ID, domain.NewMoney(mustDec(t, "5"), domain.USD)); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Type != domain.TypeDeposit || ev.AccountID != a.ID {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("no event published for deposit")
	}
}

func TestConcurrentDeposits(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, "Ana", domain.USD)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 50
	one := domain.NewMoney(decimal.NewFromInt(1), domain.USD)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, a.ID, one); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assertBalance(t, svc, a.ID, "50.00", domain.USD)
	txs, err := svc.GetTransactions(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != workers {
		t.Fatalf("log has %d entries, want %d", len(txs), workers)
	}
}
