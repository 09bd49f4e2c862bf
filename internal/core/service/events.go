package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
)

// Event describes one completed mutation, published after the store accepted
// it. The webhook worker consumes these; the service contract does not
// depend on anyone listening.
type Event struct {
	Type         domain.TransactionType `json:"type"`
	AccountID    uuid.UUID              `json:"account_id"`
	BalanceAfter domain.Money           `json:"balance_after"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// publish hands the event to the sink without ever blocking a wallet
// operation. A full sink just drops the event.
func (s *AccountService) publish(t domain.TransactionType, a *domain.Account) {
	if s.events == nil {
		return
	}
	ev := Event{
		Type:         t,
		AccountID:    a.ID,
		BalanceAfter: a.Balance,
		OccurredAt:   s.now(),
	}
	select {
	case s.events <- ev:
	default:
	}
}
