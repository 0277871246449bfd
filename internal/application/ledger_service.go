package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

type LedgerOptions struct {
	// DepositCapped rejects deposits larger than the depositor's balance.
	DepositCapped bool
	InterestMode  entity.InterestMode
	// NewID allocates account identifiers; defaults to an 8-char uuid prefix.
	NewID func() string
}

// LedgerService validates and applies balance-affecting operations.
// Every operation is rejected before any mutation when a constraint fails.
type LedgerService struct {
	Registry *Registry
	Sessions repo.SessionStore
	Events   EventPublisher
	Index    AccountIndexer
	Metrics  OperationObserver
	Logger   *logrus.Logger
	Opts     LedgerOptions
}

func NewLedgerService(registry *Registry, sessions repo.SessionStore, logger *logrus.Logger, opts LedgerOptions) *LedgerService {
	if opts.NewID == nil {
		opts.NewID = NewIdentifier
	}
	if opts.InterestMode == "" {
		opts.InterestMode = entity.InterestLiteral
	}
	return &LedgerService{Registry: registry, Sessions: sessions, Logger: logger, Opts: opts}
}

type RegisterInput struct {
	Name           string
	Email          string
	Secret         string
	InitialBalance string
}

// Register creates a standard account.
func (s *LedgerService) Register(ctx context.Context, in RegisterInput) (acc entity.Account, err error) {
	defer func() { s.observe("register", err) }()

	if in.Name == "" || in.Email == "" || in.Secret == "" || strings.TrimSpace(in.InitialBalance) == "" {
		return entity.Account{}, fmt.Errorf("%w: please complete the form", entity.ErrValidation)
	}
	if err := checkSecret(in.Secret); err != nil {
		return entity.Account{}, err
	}
	balance, err := helpers.ParseDecimal(in.InitialBalance)
	if err != nil {
		return entity.Account{}, fmt.Errorf("%w: balance must be a valid number", entity.ErrValidation)
	}
	if balance.IsNegative() {
		return entity.Account{}, fmt.Errorf("%w: balance cannot be negative", entity.ErrValidation)
	}
	if _, exists := s.Registry.FindByContact(in.Email); exists {
		return entity.Account{}, entity.ErrDuplicateContact
	}
	hash, err := helpers.HashPassword(in.Secret)
	if err != nil {
		return entity.Account{}, err
	}

	acc = entity.Account{
		Name:       in.Name,
		Email:      in.Email,
		Credential: hash,
		Role:       entity.RoleStandard,
		Balance:    balance,
	}
	acc, err = s.Registry.InsertNew(ctx, acc, s.Opts.NewID)
	if err != nil {
		return entity.Account{}, err
	}

	s.afterMutation(ctx, acc, LedgerEvent{Type: EventRegistered})
	return acc, nil
}

// Current returns the fresh state of the session's account.
func (s *LedgerService) Current(_ context.Context, sess entity.Session) (entity.Account, error) {
	a, ok := s.Registry.FindByIdentifier(sess.AccountID)
	if !ok {
		return entity.Account{}, entity.ErrNotFound
	}
	return a, nil
}

// Deposit adds amount to the acting account. With DepositCapped the amount may
// not exceed the current balance.
func (s *LedgerService) Deposit(ctx context.Context, sess entity.Session, rawAmount string) (acc entity.Account, err error) {
	defer func() { s.observe("deposit", err) }()

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return entity.Account{}, err
	}
	err = s.Registry.Update(ctx, func(tx *Tx) error {
		a, ok := tx.ByIdentifier(sess.AccountID)
		if !ok {
			return entity.ErrNotFound
		}
		if s.Opts.DepositCapped {
			if err := coveredBy(amount, a.Balance); err != nil {
				return err
			}
		}
		a.Balance = a.Balance.Add(amount)
		if err := withinLimit(a.Balance); err != nil {
			return err
		}
		acc = a
		return tx.SetBalance(a.ID, a.Balance)
	})
	if err != nil {
		return entity.Account{}, err
	}
	s.afterMutation(ctx, acc, LedgerEvent{Type: EventDeposited, Amount: &amount})
	return acc, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, sess entity.Session, rawAmount string) (acc entity.Account, err error) {
	defer func() { s.observe("withdraw", err) }()

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return entity.Account{}, err
	}
	err = s.Registry.Update(ctx, func(tx *Tx) error {
		a, ok := tx.ByIdentifier(sess.AccountID)
		if !ok {
			return entity.ErrNotFound
		}
		if err := coveredBy(amount, a.Balance); err != nil {
			return err
		}
		a.Balance = a.Balance.Sub(amount)
		acc = a
		return tx.SetBalance(a.ID, a.Balance)
	})
	if err != nil {
		return entity.Account{}, err
	}
	s.afterMutation(ctx, acc, LedgerEvent{Type: EventWithdrawn, Amount: &amount})
	return acc, nil
}

type TransferResult struct {
	Sender    entity.Account
	Recipient entity.Account
}

// Transfer moves amount from the acting account to the recipient. Both
// balances change together or not at all, and are saved once.
func (s *LedgerService) Transfer(ctx context.Context, sess entity.Session, recipientEmail, rawAmount string) (res TransferResult, err error) {
	defer func() { s.observe("transfer", err) }()

	if recipientEmail == "" || strings.TrimSpace(rawAmount) == "" {
		return TransferResult{}, fmt.Errorf("%w: please fill in all fields", entity.ErrValidation)
	}
	var amount decimal.Decimal
	err = s.Registry.Update(ctx, func(tx *Tx) error {
		sender, ok := tx.ByIdentifier(sess.AccountID)
		if !ok {
			return entity.ErrNotFound
		}
		recipient, ok := tx.ByContact(recipientEmail)
		if !ok {
			return fmt.Errorf("%w: recipient not found", entity.ErrNotFound)
		}
		if recipient.ID == sender.ID {
			return fmt.Errorf("%w: cannot transfer to your own account", entity.ErrValidation)
		}
		amt, err := parseAmount(rawAmount)
		if err != nil {
			return err
		}
		if err := coveredBy(amt, sender.Balance); err != nil {
			return err
		}
		amount = amt
		sender.Balance = sender.Balance.Sub(amt)
		recipient.Balance = recipient.Balance.Add(amt)
		if err := withinLimit(recipient.Balance); err != nil {
			return err
		}
		if err := tx.SetBalance(sender.ID, sender.Balance); err != nil {
			return err
		}
		if err := tx.SetBalance(recipient.ID, recipient.Balance); err != nil {
			return err
		}
		res = TransferResult{Sender: sender, Recipient: recipient}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.afterMutation(ctx, res.Sender, LedgerEvent{Type: EventTransferSent, Amount: &amount, Counterparty: res.Recipient.Email})
	s.afterMutation(ctx, res.Recipient, LedgerEvent{Type: EventTransferReceived, Amount: &amount, Counterparty: res.Sender.Email})
	return res, nil
}

// ProjectInterest computes a preview and binds it to the session for a later
// ApplyInterest. It does not change any balance.
func (s *LedgerService) ProjectInterest(ctx context.Context, sess entity.Session, rawRate, rawPeriods string) (p entity.Projection, err error) {
	defer func() { s.observe("interest_project", err) }()

	if strings.TrimSpace(rawRate) == "" || strings.TrimSpace(rawPeriods) == "" {
		return entity.Projection{}, fmt.Errorf("%w: please fill in all fields", entity.ErrValidation)
	}
	rate, err := helpers.ParseDecimal(rawRate)
	if err != nil {
		return entity.Projection{}, fmt.Errorf("%w: rate must be a number", entity.ErrValidation)
	}
	periods, err := strconv.Atoi(strings.TrimSpace(rawPeriods))
	if err != nil || periods <= 0 {
		return entity.Projection{}, fmt.Errorf("%w: invalid times", entity.ErrValidation)
	}
	a, ok := s.Registry.FindByIdentifier(sess.AccountID)
	if !ok {
		return entity.Projection{}, entity.ErrNotFound
	}
	preview, err := ProjectBalance(s.Opts.InterestMode, a.Balance, rate, periods)
	if err != nil {
		return entity.Projection{}, err
	}
	if preview.IsNegative() {
		return entity.Projection{}, fmt.Errorf("%w: projected balance is negative", entity.ErrInvalidAmount)
	}
	if !helpers.DecimalInRange(preview) {
		return entity.Projection{}, fmt.Errorf("%w: projected balance is out of range", entity.ErrInvalidAmount)
	}

	p = entity.Projection{
		AccountID:   a.ID,
		Mode:        s.Opts.InterestMode,
		Rate:        rate,
		Periods:     periods,
		BaseBalance: a.Balance,
		Preview:     preview,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Sessions.SaveProjection(ctx, sess.ID, p); err != nil {
		return entity.Projection{}, err
	}
	return p, nil
}

// ApplyInterest sets the balance to the session's pending preview. The
// projection is consumed even when applying fails.
func (s *LedgerService) ApplyInterest(ctx context.Context, sess entity.Session) (acc entity.Account, err error) {
	defer func() { s.observe("interest_apply", err) }()

	p, err := s.Sessions.TakeProjection(ctx, sess.ID)
	if err != nil {
		return entity.Account{}, err
	}
	if p.AccountID != sess.AccountID {
		return entity.Account{}, entity.ErrNoProjection
	}
	err = s.Registry.Update(ctx, func(tx *Tx) error {
		a, ok := tx.ByIdentifier(sess.AccountID)
		if !ok {
			return entity.ErrNotFound
		}
		if !a.Balance.Equal(p.BaseBalance) {
			return entity.ErrStaleProjection
		}
		a.Balance = p.Preview
		acc = a
		return tx.SetBalance(a.ID, a.Balance)
	})
	if err != nil {
		return entity.Account{}, err
	}
	gain := p.Preview.Sub(p.BaseBalance)
	s.afterMutation(ctx, acc, LedgerEvent{Type: EventInterestApplied, Amount: &gain})
	return acc, nil
}

// parseAmount accepts a positive decimal.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: please fill in the field", entity.ErrValidation)
	}
	d, err := helpers.ParseDecimal(raw)
	if errors.Is(err, helpers.ErrDecimalRange) {
		return decimal.Zero, fmt.Errorf("%w: amount is out of range", entity.ErrValidation)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount format", entity.ErrValidation)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", entity.ErrValidation)
	}
	return d, nil
}

// withinLimit rejects credits that would leave a balance outside the
// supported range.
func withinLimit(balance decimal.Decimal) error {
	if !helpers.DecimalInRange(balance) {
		return fmt.Errorf("%w: resulting balance is out of range", entity.ErrInvalidAmount)
	}
	return nil
}

// checkSecret enforces the bcrypt input limit, which counts bytes.
func checkSecret(secret string) error {
	if !helpers.PasswordFits(secret) {
		return fmt.Errorf("%w: password must be between 1 and %d bytes", entity.ErrValidation, helpers.MaxPasswordBytes)
	}
	return nil
}

func coveredBy(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: %s exceeds balance %s", entity.ErrInvalidAmount, amount.String(), balance.String())
	}
	return nil
}

func (s *LedgerService) afterMutation(ctx context.Context, a entity.Account, ev LedgerEvent) {
	if s.Index != nil {
		if err := s.Index.IndexAccount(ctx, a.Summary()); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Warn("index account failed")
		}
	}
	publish(ctx, s.Events, s.Logger, a, ev)
}

func (s *LedgerService) observe(op string, err error) {
	if s.Metrics != nil {
		s.Metrics.Observe(op, err)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("op", op).Debug("ledger operation rejected")
	}
}

func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, a entity.Account, ev LedgerEvent) {
	if pub == nil {
		return
	}
	ev.AccountID = a.ID
	ev.Email = a.Email
	ev.Name = a.Name
	ev.Balance = a.Balance
	ev.OccurredAt = time.Now().UTC()
	if err := pub.Publish(ctx, ev); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{"account_id": a.ID, "event": ev.Type}).Warn("publish ledger event failed")
	}
}
