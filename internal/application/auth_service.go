package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

type AuthService struct {
	Registry *Registry
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(registry *Registry, sessions repo.SessionStore, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Registry: registry, Sessions: sessions, JWT: jwt, Logger: logger}
}

// Authenticate looks the account up by email and checks the secret.
// Unknown email and wrong secret both yield entity.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) (entity.Account, error) {
	a, ok := s.Registry.FindByContact(email)
	if !ok {
		return entity.Account{}, entity.ErrInvalidCredentials
	}
	if helpers.IsPasswordHash(a.Credential) {
		if !helpers.CompareHashAndPassword(a.Credential, secret) {
			return entity.Account{}, entity.ErrInvalidCredentials
		}
		return a, nil
	}
	// Plain secret written by older tooling.
	if a.Credential != secret {
		return entity.Account{}, entity.ErrInvalidCredentials
	}
	s.upgradeCredential(ctx, a.ID, secret)
	return a, nil
}

func (s *AuthService) upgradeCredential(ctx context.Context, accountID, secret string) {
	hash, err := helpers.HashPassword(secret)
	if err == nil {
		err = s.Registry.Update(ctx, func(tx *Tx) error {
			return tx.SetCredential(accountID, hash)
		})
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("credential upgrade failed")
	}
}

// Login authenticates and opens a new session, replacing any previous one.
func (s *AuthService) Login(ctx context.Context, email, secret string) (entity.Account, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, secret)
	if err != nil {
		return entity.Account{}, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return entity.Account{}, TokenPair{}, err
	}
	return a, pair, nil
}

// IssueTokens generates access/refresh tokens and records the session.
func (s *AuthService) IssueTokens(ctx context.Context, a entity.Account) (TokenPair, error) {
	sess := entity.Session{
		ID:        uuid.NewString(),
		AccountID: a.ID,
		Role:      a.Role,
		CreatedAt: time.Now().UTC(),
	}
	pair, err := s.tokens(sess)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Resolve validates an access token against the active session of its account.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (entity.Session, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return entity.Session{}, entity.ErrInvalidCredentials
	}
	return s.activeSession(ctx, claims)
}

// Refresh rotates the session id and both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, entity.ErrInvalidCredentials
	}
	sess, err := s.activeSession(ctx, claims)
	if err != nil {
		return TokenPair{}, err
	}
	a, ok := s.Registry.FindByIdentifier(sess.AccountID)
	if !ok {
		_ = s.Sessions.Delete(ctx, sess.AccountID)
		return TokenPair{}, entity.ErrInvalidCredentials
	}
	return s.IssueTokens(ctx, a)
}

func (s *AuthService) Logout(ctx context.Context, sess entity.Session) error {
	if _, err := s.Sessions.TakeProjection(ctx, sess.ID); err != nil && !errors.Is(err, entity.ErrNoProjection) && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", sess.AccountID).Warn("drop projection failed")
	}
	return s.Sessions.Delete(ctx, sess.AccountID)
}

func (s *AuthService) activeSession(ctx context.Context, claims *helpers.Claims) (entity.Session, error) {
	sess, err := s.Sessions.Get(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Session{}, entity.ErrInvalidCredentials
		}
		return entity.Session{}, err
	}
	if sess.ID != claims.SessionID {
		return entity.Session{}, entity.ErrInvalidCredentials
	}
	return sess, nil
}

func (s *AuthService) tokens(sess entity.Session) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(sess.AccountID, sess.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(sess.AccountID, sess.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
