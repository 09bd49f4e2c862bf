// Package service holds the account orchestration logic: every money-moving
// operation loads the account from the store, applies the money/fx rules,
// appends exactly one transaction, and saves the result back. Stores, rates,
// ids and time are injected capabilities so front ends and tests can swap
// them freely.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/fx"
)

// AccountStore is the persistence capability the service consumes. Save is
// an idempotent upsert by id and returns the stored account; FindByID
// reports a missing id with domain.ErrAccountNotFound. Implementations must
// hand out copies the caller owns.
type AccountStore interface {
	Save(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// IDGenerator and Clock let tests pin ids and timestamps.
type (
	IDGenerator func() uuid.UUID
	Clock       func() time.Time
)

const convertNote = "full balance conversion"

// AccountService implements the wallet operations over an injected store and
// rate provider.
type AccountService struct {
	store  AccountStore
	rates  fx.RateProvider
	newID  IDGenerator
	now    Clock
	events chan<- Event

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// Option tweaks an AccountService at construction time.
type Option func(*AccountService)

// WithIDGenerator replaces the default uuid.New.
func WithIDGenerator(g IDGenerator) Option { return func(s *AccountService) { s.newID = g } }

// WithClock replaces the default time.Now.
func WithClock(c Clock) Option { return func(s *AccountService) { s.now = c } }

// WithEvents attaches a sink for wallet events. Publishing never blocks; an
// event is dropped when the sink is full.
func WithEvents(ch chan<- Event) Option { return func(s *AccountService) { s.events = ch } }

func NewAccountService(store AccountStore, rates fx.RateProvider, opts ...Option) *AccountService {
	s := &AccountService{
		store: store,
		rates: rates,
		newID: uuid.New,
		now:   time.Now,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockAccount serializes the read-modify-append-save cycle per account id.
// Operations on different accounts proceed independently.
func (s *AccountService) lockAccount(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// CreateAccount opens an account with a zero balance in the given currency
// and an empty transaction log.
func (s *AccountService) CreateAccount(ctx context.Context, owner string, currency domain.Currency) (*domain.Account, error) {
	a := &domain.Account{
		ID:        s.newID(),
		OwnerName: owner,
		Balance:   domain.Zero(currency),
		CreatedAt: s.now(),
	}
	return s.store.Save(ctx, a)
}

// GetBalance is a pure read; no transaction is recorded.
func (s *AccountService) GetBalance(ctx context.Context, id uuid.UUID) (domain.Money, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Money{}, err
	}
	return a.Balance, nil
}

// Deposit adds amount to the account. An amount in a foreign currency is
// converted into the account's currency first; the recorded transaction
// carries the converted value. Positivity of the amount is the calling
// boundary's concern, not enforced here.
func (s *AccountService) Deposit(ctx context.Context, id uuid.UUID, amount domain.Money) (*domain.Account, error) {
	unlock := s.lockAccount(id)
	defer unlock()

	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	credited := amount
	if amount.Currency != a.Currency() {
		credited, err = fx.Convert(amount, a.Currency(), s.rates)
		if err != nil {
			return nil, fmt.Errorf("deposit: %w", err)
		}
	}

	newBalance, err := a.Balance.Add(credited)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}
	a.Balance = newBalance
	s.append(a, domain.TypeDeposit, credited, "")

	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(domain.TypeDeposit, saved)
	return saved, nil
}

// Withdraw removes amount (given in the account's currency) from the
// balance. Withdrawing the exact balance drains the account to 0.00;
// anything above it fails with ErrInsufficientFunds and leaves the account
// untouched.
func (s *AccountService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	unlock := s.lockAccount(id)
	defer unlock()

	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := domain.NewMoney(amount, a.Currency())
	if a.Balance.Amount.LessThan(m.Amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientFunds, a.Balance, m)
	}

	newBalance, err := a.Balance.Subtract(m)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	a.Balance = newBalance
	s.append(a, domain.TypeWithdraw, m, "")

	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(domain.TypeWithdraw, saved)
	return saved, nil
}

// ConvertAll re-expresses the entire balance in the target currency. When
// the account already holds the target currency this is a no-op: the account
// is returned unchanged and nothing is appended to the log.
func (s *AccountService) ConvertAll(ctx context.Context, id uuid.UUID, target domain.Currency) (*domain.Account, error) {
	unlock := s.lockAccount(id)
	defer unlock()

	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Currency() == target {
		return a, nil
	}

	after, err := fx.Convert(a.Balance, target, s.rates)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	a.Balance = after
	s.append(a, domain.TypeConvert, after, convertNote)

	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(domain.TypeConvert, saved)
	return saved, nil
}

// GetTransactions returns the full log, oldest first. The slice is owned by
// the caller.
func (s *AccountService) GetTransactions(ctx context.Context, id uuid.UUID) ([]domain.Transaction, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.Transactions, nil
}

// append records one ledger entry with the current balance snapshot.
func (s *AccountService) append(a *domain.Account, t domain.TransactionType, amount domain.Money, notes string) {
	a.Transactions = append(a.Transactions, domain.Transaction{
		ID:           s.newID(),
		Timestamp:    s.now(),
		Type:         t,
		Amount:       amount,
		BalanceAfter: a.Balance,
		Notes:        notes,
	})
}
