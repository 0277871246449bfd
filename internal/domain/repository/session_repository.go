package repository

import (
	"context"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// SessionStore keeps at most one active session per account, plus the
// pending interest projection of each session.
type SessionStore interface {
	Save(ctx context.Context, s entity.Session) error
	// Get returns entity.ErrNotFound when the account has no active session.
	Get(ctx context.Context, accountID string) (entity.Session, error)
	Delete(ctx context.Context, accountID string) error

	SaveProjection(ctx context.Context, sessionID string, p entity.Projection) error
	// TakeProjection returns and removes the projection; entity.ErrNoProjection when absent.
	TakeProjection(ctx context.Context, sessionID string) (entity.Projection, error)
}
