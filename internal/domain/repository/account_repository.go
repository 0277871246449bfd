package repository

import (
	"context"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// AccountGateway is the bulk persistence boundary of the registry.
// LoadAll must preserve stored order; SaveAll replaces the whole backing store.
type AccountGateway interface {
	LoadAll(ctx context.Context) ([]entity.Account, error)
	SaveAll(ctx context.Context, accounts []entity.Account) error
}
