package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// AdminService holds the operations reserved to administrators. Each call
// checks the acting session's role.
type AdminService struct {
	Registry *Registry
	Sessions repo.SessionStore
	Events   EventPublisher
	Index    AccountIndexer
	Metrics  OperationObserver
	Logger   *logrus.Logger
	// DefaultSecret is used by ResetCredential when no new secret is given.
	DefaultSecret string
}

func NewAdminService(registry *Registry, sessions repo.SessionStore, logger *logrus.Logger, defaultSecret string) *AdminService {
	return &AdminService{Registry: registry, Sessions: sessions, Logger: logger, DefaultSecret: defaultSecret}
}

func (s *AdminService) ListAll(_ context.Context, actor entity.Session) ([]entity.Summary, error) {
	if !actor.Role.IsAdministrator() {
		return nil, entity.ErrForbidden
	}
	all := s.Registry.All()
	out := make([]entity.Summary, 0, len(all))
	for _, a := range all {
		out = append(out, a.Summary())
	}
	return out, nil
}

// DeleteAccount removes the account and ends its session.
func (s *AdminService) DeleteAccount(ctx context.Context, actor entity.Session, id string) (err error) {
	defer func() { s.observe("admin_delete", err) }()

	if !actor.Role.IsAdministrator() {
		return entity.ErrForbidden
	}
	removed, err := s.Registry.Remove(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Sessions.Delete(ctx, removed.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", removed.ID).Warn("drop session of deleted account failed")
	}
	if s.Index != nil {
		if err := s.Index.RemoveAccount(ctx, removed.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", removed.ID).Warn("unindex account failed")
		}
	}
	publish(ctx, s.Events, s.Logger, removed, LedgerEvent{Type: EventDeleted})
	s.info("account deleted", actor, removed.ID)
	return nil
}

// ResetCredential overwrites the stored secret. The affected account is not
// notified.
func (s *AdminService) ResetCredential(ctx context.Context, actor entity.Session, id, newSecret string) (secret string, err error) {
	defer func() { s.observe("admin_reset_credential", err) }()

	if !actor.Role.IsAdministrator() {
		return "", entity.ErrForbidden
	}
	secret = newSecret
	if secret == "" {
		secret = s.DefaultSecret
	}
	if secret == "" {
		return "", fmt.Errorf("%w: new secret is required", entity.ErrValidation)
	}
	if err := checkSecret(secret); err != nil {
		return "", err
	}
	if _, ok := s.Registry.FindByIdentifier(id); !ok {
		return "", entity.ErrNotFound
	}
	hash, err := helpers.HashPassword(secret)
	if err != nil {
		return "", err
	}
	var acc entity.Account
	err = s.Registry.Update(ctx, func(tx *Tx) error {
		a, ok := tx.ByIdentifier(id)
		if !ok {
			return entity.ErrNotFound
		}
		acc = a
		return tx.SetCredential(id, hash)
	})
	if err != nil {
		return "", err
	}
	publish(ctx, s.Events, s.Logger, acc, LedgerEvent{Type: EventCredentialReset})
	s.info("credential reset", actor, id)
	return secret, nil
}

// Search queries the search index when configured and otherwise scans the
// registry for name or email substrings.
func (s *AdminService) Search(ctx context.Context, actor entity.Session, q string, size int) ([]entity.Summary, error) {
	if !actor.Role.IsAdministrator() {
		return nil, entity.ErrForbidden
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.Index != nil {
		return s.Index.SearchAccounts(ctx, q, size)
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]entity.Summary, 0, size)
	for _, a := range s.Registry.All() {
		if len(out) == size {
			break
		}
		if strings.Contains(strings.ToLower(a.Name), needle) || strings.Contains(strings.ToLower(a.Email), needle) {
			out = append(out, a.Summary())
		}
	}
	return out, nil
}

func (s *AdminService) observe(op string, err error) {
	if s.Metrics != nil {
		s.Metrics.Observe(op, err)
	}
}

func (s *AdminService) info(msg string, actor entity.Session, target string) {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"admin_id": actor.AccountID, "account_id": target}).Info(msg)
	}
}
