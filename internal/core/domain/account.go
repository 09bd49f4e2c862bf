package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the one mutable entity in the system: a balance plus an
// append-only transaction log. Only the account service mutates it; stores
// hand out copies so no caller ever shares memory with stored state.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	OwnerName    string        `json:"owner_name"`
	Balance      Money         `json:"balance"`
	CreatedAt    time.Time     `json:"created_at"`
	Transactions []Transaction `json:"transactions"`
}

// Currency is the tag of the current balance. It is fixed at creation except
// for ConvertAll, which re-tags the balance in the target currency.
func (a *Account) Currency() Currency {
	return a.Balance.Currency
}

// Clone returns a deep copy. Transaction values carry no pointers, so copying
// the slice is enough.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}
