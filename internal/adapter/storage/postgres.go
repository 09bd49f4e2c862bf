package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
)

// ConnectDB initializes the connection pool.
func ConnectDB(databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return pool, nil
}

// Migrate creates the schema when it does not exist yet. Amounts are stored
// as text so they round-trip through shopspring/decimal without any driver
// coercion.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id         uuid PRIMARY KEY,
			owner_name text        NOT NULL,
			balance    text        NOT NULL,
			currency   text        NOT NULL,
			created_at timestamptz NOT NULL
		);
		CREATE TABLE IF NOT EXISTS transactions (
			id               uuid PRIMARY KEY,
			account_id       uuid        NOT NULL REFERENCES accounts(id),
			position         bigint      NOT NULL,
			ts               timestamptz NOT NULL,
			type             text        NOT NULL,
			amount           text        NOT NULL,
			amount_currency  text        NOT NULL,
			balance_after    text        NOT NULL,
			balance_currency text        NOT NULL,
			notes            text        NOT NULL DEFAULT '',
			UNIQUE (account_id, position)
		);
	`)
	return err
}

// PostgresStore implements AccountStore on pgx. The transaction log is
// append-only: Save inserts only the log entries the table does not have
// yet, keyed by id.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, owner_name, balance, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET balance = EXCLUDED.balance, currency = EXCLUDED.currency`,
		a.ID, a.OwnerName, a.Balance.Amount.StringFixed(domain.Scale), a.Balance.Currency, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	for i, t := range a.Transactions {
		_, err = tx.Exec(ctx, `
			INSERT INTO transactions
				(id, account_id, position, ts, type, amount, amount_currency, balance_after, balance_currency, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING`,
			t.ID, a.ID, i, t.Timestamp, t.Type,
			t.Amount.Amount.StringFixed(domain.Scale), t.Amount.Currency,
			t.BalanceAfter.Amount.StringFixed(domain.Scale), t.BalanceAfter.Currency,
			t.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("save transaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var (
		a        domain.Account
		balance  string
		currency string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_name, balance, currency, created_at FROM accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.OwnerName, &balance, &currency, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Balance, err = parseMoney(balance, currency)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, ts, type, amount, amount_currency, balance_after, balance_currency, notes
		FROM transactions WHERE account_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t                 domain.Transaction
			amount, amountCur string
			balAfter, balCur  string
		)
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Type, &amount, &amountCur, &balAfter, &balCur, &t.Notes); err != nil {
			return nil, err
		}
		if t.Amount, err = parseMoney(amount, amountCur); err != nil {
			return nil, err
		}
		if t.BalanceAfter, err = parseMoney(balAfter, balCur); err != nil {
			return nil, err
		}
		a.Transactions = append(a.Transactions, t)
	}
	return &a, rows.Err()
}

func parseMoney(amount, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("corrupt stored amount %q: %w", amount, err)
	}
	return domain.NewMoney(d, domain.Currency(currency)), nil
}
