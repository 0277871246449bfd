package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// Ledger event types published after successful mutations.
const (
	EventRegistered       = "registered"
	EventDeposited        = "deposited"
	EventWithdrawn        = "withdrawn"
	EventTransferSent     = "transfer_sent"
	EventTransferReceived = "transfer_received"
	EventInterestApplied  = "interest_applied"
	EventDeleted          = "deleted"
	EventCredentialReset  = "credential_reset"
)

// LedgerEvent is the message published for every accepted mutation.
type LedgerEvent struct {
	Type         string           `json:"type"`
	AccountID    string           `json:"account_id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Balance      decimal.Decimal  `json:"balance"`
	Counterparty string           `json:"counterparty,omitempty"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev LedgerEvent) error
}

// AccountIndexer mirrors account summaries into a search backend.
type AccountIndexer interface {
	IndexAccount(ctx context.Context, s entity.Summary) error
	RemoveAccount(ctx context.Context, id string) error
	SearchAccounts(ctx context.Context, q string, size int) ([]entity.Summary, error)
}

type OperationObserver interface {
	Observe(op string, err error)
}
