package application

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/infrastructure/memory"
)

type LedgerServiceSuite struct {
	suite.Suite
	ctx      context.Context
	gateway  *stubGateway
	sessions *memory.SessionStore
	events   *recordingPublisher
	metrics  *recordingObserver
	svc      *LedgerService
	alice    entity.Session
	bob      entity.Session
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.ctx = context.Background()
	alice := account("alice001", "alice@example.com", "100")
	bob := account("bob00001", "bob@example.com", "20")
	s.gateway = &stubGateway{rows: []entity.Account{alice, bob}}
	reg := NewRegistry(s.gateway, nil)
	s.Require().NoError(reg.Load(s.ctx))

	s.sessions = memory.NewSessionStore()
	s.events = &recordingPublisher{}
	s.metrics = &recordingObserver{}
	s.svc = NewLedgerService(reg, s.sessions, nil, LedgerOptions{
		DepositCapped: true,
		NewID:         sequentialIDs("new00001", "new00002"),
	})
	s.svc.Events = s.events
	s.svc.Metrics = s.metrics
	s.alice = sessionFor(alice)
	s.bob = sessionFor(bob)
}

func (s *LedgerServiceSuite) balance(id string) decimal.Decimal {
	a, ok := s.svc.Registry.FindByIdentifier(id)
	s.Require().True(ok)
	return a.Balance
}

func (s *LedgerServiceSuite) assertBalance(id, want string) {
	s.True(s.balance(id).Equal(decimal.RequireFromString(want)), "balance of %s = %s, want %s", id, s.balance(id), want)
}

// TestDepositTransferScenario walks a full deposit and transfer sequence.
func (s *LedgerServiceSuite) TestDepositTransferScenario() {
	_, err := s.svc.Deposit(s.ctx, s.alice, "50")
	s.Require().NoError(err)
	s.assertBalance("alice001", "150")

	_, err = s.svc.Deposit(s.ctx, s.alice, "200")
	s.ErrorIs(err, entity.ErrInvalidAmount)
	s.assertBalance("alice001", "150")

	res, err := s.svc.Transfer(s.ctx, s.alice, "bob@example.com", "150.0")
	s.Require().NoError(err)
	s.True(res.Sender.Balance.IsZero())
	s.assertBalance("alice001", "0")
	s.assertBalance("bob00001", "170")

	_, err = s.svc.Transfer(s.ctx, s.alice, "bob@example.com", "0.01")
	s.ErrorIs(err, entity.ErrInvalidAmount)
	s.assertBalance("alice001", "0")
	s.assertBalance("bob00001", "170")

	saved, _ := s.gateway.saved("bob00001")
	s.True(saved.Balance.Equal(decimal.NewFromInt(170)))
	s.Equal([]string{EventDeposited, EventTransferSent, EventTransferReceived}, s.events.types())
}

func (s *LedgerServiceSuite) TestRegister() {
	s.Run("creates standard account", func() {
		acc, err := s.svc.Register(s.ctx, RegisterInput{Name: "Carol", Email: "carol@example.com", Secret: "s3cret", InitialBalance: "12.50"})
		s.Require().NoError(err)
		s.Equal("new00001", acc.ID)
		s.Equal(entity.RoleStandard, acc.Role)
		s.NotEqual("s3cret", acc.Credential)
		s.True(acc.Balance.Equal(decimal.RequireFromString("12.5")))
		_, ok := s.gateway.saved("new00001")
		s.True(ok)
	})

	s.Run("rejects incomplete form", func() {
		_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", InitialBalance: "1"})
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("rejects non-numeric balance", func() {
		_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", Secret: "x", InitialBalance: "lots"})
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("rejects negative balance", func() {
		_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", Secret: "x", InitialBalance: "-1"})
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("rejects secret over the bcrypt byte limit", func() {
		// 37 characters, 74 bytes.
		_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", Secret: strings.Repeat("é", 37), InitialBalance: "1"})
		s.ErrorIs(err, entity.ErrValidation)
		_, ok := s.svc.Registry.FindByContact("dan@example.com")
		s.False(ok)
	})

	s.Run("rejects out of range balance", func() {
		for _, raw := range []string{"1e2000000000", "1e-999999"} {
			_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Dan", Email: "dan@example.com", Secret: "x", InitialBalance: raw})
			s.ErrorIs(err, entity.ErrValidation, raw)
		}
	})

	s.Run("rejects duplicate contact", func() {
		_, err := s.svc.Register(s.ctx, RegisterInput{Name: "A", Email: "alice@example.com", Secret: "x", InitialBalance: "0"})
		s.ErrorIs(err, entity.ErrDuplicateContact)
	})
}

func (s *LedgerServiceSuite) TestDeposit() {
	s.Run("rejects non-positive and malformed amounts", func() {
		for _, raw := range []string{"0", "-5", "abc", "", "1e999999", "1e-999999"} {
			_, err := s.svc.Deposit(s.ctx, s.alice, raw)
			s.ErrorIs(err, entity.ErrValidation, raw)
		}
		s.assertBalance("alice001", "100")
	})

	s.Run("uncapped deposit ignores balance", func() {
		s.svc.Opts.DepositCapped = false
		defer func() { s.svc.Opts.DepositCapped = true }()
		acc, err := s.svc.Deposit(s.ctx, s.bob, "500")
		s.Require().NoError(err)
		s.True(acc.Balance.Equal(decimal.NewFromInt(520)))
	})

	s.Run("credit beyond the balance range", func() {
		s.svc.Opts.DepositCapped = false
		defer func() { s.svc.Opts.DepositCapped = true }()
		_, err := s.svc.Deposit(s.ctx, s.alice, strings.Repeat("9", 30))
		s.ErrorIs(err, entity.ErrInvalidAmount)
		s.assertBalance("alice001", "100")
	})

	s.Run("persistence failure leaves balance unchanged", func() {
		s.gateway.failSave = true
		defer func() { s.gateway.failSave = false }()
		_, err := s.svc.Deposit(s.ctx, s.alice, "10")
		s.ErrorIs(err, entity.ErrPersistence)
		s.assertBalance("alice001", "100")
	})
}

func (s *LedgerServiceSuite) TestWithdraw() {
	s.Run("debits balance", func() {
		acc, err := s.svc.Withdraw(s.ctx, s.alice, "30.25")
		s.Require().NoError(err)
		s.True(acc.Balance.Equal(decimal.RequireFromString("69.75")))
	})

	s.Run("rejects amount over balance", func() {
		_, err := s.svc.Withdraw(s.ctx, s.bob, "20.01")
		s.ErrorIs(err, entity.ErrInvalidAmount)
		s.assertBalance("bob00001", "20")
	})

	s.Run("rejects extreme exponents before comparing", func() {
		_, err := s.svc.Withdraw(s.ctx, s.alice, "1e20000000")
		s.ErrorIs(err, entity.ErrValidation)
		s.assertBalance("alice001", "100")
	})

	s.Run("allows draining to zero", func() {
		acc, err := s.svc.Withdraw(s.ctx, s.bob, "20")
		s.Require().NoError(err)
		s.True(acc.Balance.IsZero())
	})
}

func (s *LedgerServiceSuite) TestTransfer() {
	s.Run("unknown recipient", func() {
		_, err := s.svc.Transfer(s.ctx, s.alice, "nobody@example.com", "1")
		s.ErrorIs(err, entity.ErrNotFound)
	})

	s.Run("empty fields", func() {
		_, err := s.svc.Transfer(s.ctx, s.alice, "", "1")
		s.ErrorIs(err, entity.ErrValidation)
		_, err = s.svc.Transfer(s.ctx, s.alice, "bob@example.com", " ")
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("self transfer", func() {
		_, err := s.svc.Transfer(s.ctx, s.alice, "alice@example.com", "1")
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("both balances roll back on save failure", func() {
		s.gateway.failSave = true
		defer func() { s.gateway.failSave = false }()
		_, err := s.svc.Transfer(s.ctx, s.alice, "bob@example.com", "10")
		s.ErrorIs(err, entity.ErrPersistence)
		s.assertBalance("alice001", "100")
		s.assertBalance("bob00001", "20")
	})
}

func (s *LedgerServiceSuite) TestInterest() {
	s.Run("projection does not change balance", func() {
		p, err := s.svc.ProjectInterest(s.ctx, s.alice, "10", "2")
		s.Require().NoError(err)
		s.True(p.Preview.Equal(decimal.NewFromInt(110)), p.Preview.String())
		s.assertBalance("alice001", "100")
	})

	s.Run("apply sets balance to preview and consumes projection", func() {
		acc, err := s.svc.ApplyInterest(s.ctx, s.alice)
		s.Require().NoError(err)
		s.True(acc.Balance.Equal(decimal.NewFromInt(110)))
		_, err = s.svc.ApplyInterest(s.ctx, s.alice)
		s.ErrorIs(err, entity.ErrNoProjection)
	})

	s.Run("apply without projection", func() {
		_, err := s.svc.ApplyInterest(s.ctx, s.bob)
		s.ErrorIs(err, entity.ErrNoProjection)
	})

	s.Run("stale projection", func() {
		_, err := s.svc.ProjectInterest(s.ctx, s.bob, "5", "1")
		s.Require().NoError(err)
		_, err = s.svc.Deposit(s.ctx, s.bob, "1")
		s.Require().NoError(err)
		_, err = s.svc.ApplyInterest(s.ctx, s.bob)
		s.ErrorIs(err, entity.ErrStaleProjection)
		s.assertBalance("bob00001", "21")
		_, err = s.svc.ApplyInterest(s.ctx, s.bob)
		s.ErrorIs(err, entity.ErrNoProjection)
	})

	s.Run("invalid inputs", func() {
		_, err := s.svc.ProjectInterest(s.ctx, s.alice, "ten", "2")
		s.ErrorIs(err, entity.ErrValidation)
		_, err = s.svc.ProjectInterest(s.ctx, s.alice, "10", "0")
		s.ErrorIs(err, entity.ErrValidation)
		_, err = s.svc.ProjectInterest(s.ctx, s.alice, "10", "1.5")
		s.ErrorIs(err, entity.ErrValidation)
		_, err = s.svc.ProjectInterest(s.ctx, s.alice, "1e999999", "1")
		s.ErrorIs(err, entity.ErrValidation)
	})

	s.Run("negative preview rejected", func() {
		_, err := s.svc.ProjectInterest(s.ctx, s.bob, "-200", "1")
		s.ErrorIs(err, entity.ErrInvalidAmount)
	})
}

func (s *LedgerServiceSuite) TestMetricsObserved() {
	_, _ = s.svc.Deposit(s.ctx, s.alice, "1")
	_, _ = s.svc.Withdraw(s.ctx, s.alice, "1000")
	s.Equal([]string{"deposit:ok", "withdraw:error"}, s.metrics.ops)
}
