package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// AccountGateway stores the table in the accounts relation. The position
// column keeps the registry order across loads.
type AccountGateway struct {
	pool *pgxpool.Pool
}

func NewAccountGateway(pool *pgxpool.Pool) *AccountGateway {
	return &AccountGateway{pool: pool}
}

func (g *AccountGateway) LoadAll(ctx context.Context) ([]entity.Account, error) {
	rows, err := g.pool.Query(ctx, `
		SELECT uid, name, email, password, role, balance::text
		FROM accounts
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Account
	for rows.Next() {
		var (
			a             entity.Account
			role, balance string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Credential, &role, &balance); err != nil {
			return nil, err
		}
		if a.Role, err = entity.ParseRole(role); err != nil {
			return nil, err
		}
		if a.Balance, err = helpers.ParseDecimal(balance); err != nil {
			return nil, fmt.Errorf("account %s: balance: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAll replaces the relation contents in a single transaction.
func (g *AccountGateway) SaveAll(ctx context.Context, accounts []entity.Account) error {
	return pgx.BeginFunc(ctx, g.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
			return err
		}
		if len(accounts) == 0 {
			return nil
		}
		b := &pgx.Batch{}
		for i, a := range accounts {
			b.Queue(`
				INSERT INTO accounts (position, uid, name, email, password, role, balance)
				VALUES ($1, $2, $3, $4, $5, $6, ($7::text)::numeric)
			`, i, a.ID, a.Name, a.Email, a.Credential, a.Role.WireName(), a.Balance.String())
		}
		return tx.SendBatch(ctx, b).Close()
	})
}

var _ repository.AccountGateway = (*AccountGateway)(nil)
