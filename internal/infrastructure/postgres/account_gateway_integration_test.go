//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// Requires LEDGER_TEST_DSN pointing at a disposable database.
type AccountGatewaySuite struct {
	suite.Suite
	gateway *AccountGateway
	close   func()
}

func TestAccountGatewaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("LEDGER_TEST_DSN") == "" {
		t.Skip("LEDGER_TEST_DSN not set")
	}
	suite.Run(t, new(AccountGatewaySuite))
}

func (s *AccountGatewaySuite) SetupSuite() {
	dsn := os.Getenv("LEDGER_TEST_DSN")
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	s.Require().NoError(RunMigrations(dsn, "../../../db/migrations", logger))
	pool, err := NewPool(context.Background(), PoolConfig{DSN: dsn, MaxConns: 2, MinConns: 1}, logger)
	s.Require().NoError(err)
	s.gateway = NewAccountGateway(pool)
	s.close = pool.Close
}

func (s *AccountGatewaySuite) TearDownSuite() {
	if s.close != nil {
		s.close()
	}
}

func (s *AccountGatewaySuite) TestSaveAllReplacesTable() {
	ctx := context.Background()
	first := []entity.Account{
		{ID: "bbbbbbbb", Name: "B", Email: "b@example.com", Credential: "x", Role: entity.RoleStandard, Balance: decimal.RequireFromString("12.34")},
		{ID: "aaaaaaaa", Name: "A", Email: "a@example.com", Credential: "y", Role: entity.RoleAdministrator, Balance: decimal.Zero},
	}
	s.Require().NoError(s.gateway.SaveAll(ctx, first))

	got, err := s.gateway.LoadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("bbbbbbbb", got[0].ID)
	s.True(got[0].Balance.Equal(first[0].Balance))
	s.Equal(entity.RoleAdministrator, got[1].Role)

	s.Require().NoError(s.gateway.SaveAll(ctx, first[1:]))
	got, err = s.gateway.LoadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("aaaaaaaa", got[0].ID)

	s.Require().NoError(s.gateway.SaveAll(ctx, nil))
	got, err = s.gateway.LoadAll(ctx)
	s.Require().NoError(err)
	s.Empty(got)
}
