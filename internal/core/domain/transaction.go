package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeDeposit  TransactionType = "DEPOSIT"
	TypeWithdraw TransactionType = "WITHDRAW"
	TypeConvert  TransactionType = "CONVERT"
)

// Transaction is one immutable entry in an account's ledger. Amount is the
// delta applied (for CONVERT it is the post-conversion total) and
// BalanceAfter is the account balance right after this entry was applied.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Type         TransactionType `json:"type"`
	Amount       Money           `json:"amount"`
	BalanceAfter Money           `json:"balance_after"`
	Notes        string          `json:"notes,omitempty"`
}
