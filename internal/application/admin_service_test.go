package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/infrastructure/memory"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

type AdminServiceSuite struct {
	suite.Suite
	ctx      context.Context
	gateway  *stubGateway
	sessions *memory.SessionStore
	events   *recordingPublisher
	svc      *AdminService
	admin    entity.Session
	user     entity.Session
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.ctx = context.Background()
	root := account("root0001", "root@example.com", "0")
	root.Role = entity.RoleAdministrator
	alice := account("alice001", "alice@example.com", "100")
	bob := account("bob00001", "bob@example.com", "20")
	s.gateway = &stubGateway{rows: []entity.Account{root, alice, bob}}
	reg := NewRegistry(s.gateway, nil)
	s.Require().NoError(reg.Load(s.ctx))

	s.sessions = memory.NewSessionStore()
	s.events = &recordingPublisher{}
	s.svc = NewAdminService(reg, s.sessions, nil, "password123")
	s.svc.Events = s.events
	s.admin = sessionFor(root)
	s.user = sessionFor(alice)
}

func (s *AdminServiceSuite) TestRoleIsChecked() {
	_, err := s.svc.ListAll(s.ctx, s.user)
	s.ErrorIs(err, entity.ErrForbidden)
	s.ErrorIs(s.svc.DeleteAccount(s.ctx, s.user, "bob00001"), entity.ErrForbidden)
	_, err = s.svc.ResetCredential(s.ctx, s.user, "bob00001", "")
	s.ErrorIs(err, entity.ErrForbidden)
	_, err = s.svc.Search(s.ctx, s.user, "bob", 10)
	s.ErrorIs(err, entity.ErrForbidden)
}

func (s *AdminServiceSuite) TestListAll() {
	all, err := s.svc.ListAll(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("admin", all[0].Role)
	s.Equal("user", all[1].Role)
	s.Equal("alice@example.com", all[1].Email)
}

func (s *AdminServiceSuite) TestDeleteAccount() {
	s.Require().NoError(s.sessions.Save(s.ctx, s.user))

	s.Require().NoError(s.svc.DeleteAccount(s.ctx, s.admin, "alice001"))
	_, ok := s.svc.Registry.FindByIdentifier("alice001")
	s.False(ok)
	_, ok = s.gateway.saved("alice001")
	s.False(ok)
	_, err := s.sessions.Get(s.ctx, "alice001")
	s.ErrorIs(err, entity.ErrNotFound)
	s.Equal([]string{EventDeleted}, s.events.types())

	s.ErrorIs(s.svc.DeleteAccount(s.ctx, s.admin, "alice001"), entity.ErrNotFound)
}

func (s *AdminServiceSuite) TestResetCredential() {
	s.Run("explicit secret", func() {
		secret, err := s.svc.ResetCredential(s.ctx, s.admin, "bob00001", "fresh-secret")
		s.Require().NoError(err)
		s.Equal("fresh-secret", secret)
		saved, _ := s.gateway.saved("bob00001")
		s.True(helpers.CompareHashAndPassword(saved.Credential, "fresh-secret"))
	})

	s.Run("falls back to default secret", func() {
		secret, err := s.svc.ResetCredential(s.ctx, s.admin, "bob00001", "")
		s.Require().NoError(err)
		s.Equal("password123", secret)
		saved, _ := s.gateway.saved("bob00001")
		s.True(helpers.CompareHashAndPassword(saved.Credential, "password123"))
	})

	s.Run("secret over the bcrypt byte limit", func() {
		_, err := s.svc.ResetCredential(s.ctx, s.admin, "bob00001", strings.Repeat("é", 37))
		s.ErrorIs(err, entity.ErrValidation)
		saved, _ := s.gateway.saved("bob00001")
		s.True(helpers.CompareHashAndPassword(saved.Credential, "password123"))
	})

	s.Run("unknown account", func() {
		_, err := s.svc.ResetCredential(s.ctx, s.admin, "missing0", "x")
		s.ErrorIs(err, entity.ErrNotFound)
	})

	s.Equal([]string{EventCredentialReset, EventCredentialReset}, s.events.types())
}

func (s *AdminServiceSuite) TestSearch() {
	s.Run("scans registry without index", func() {
		found, err := s.svc.Search(s.ctx, s.admin, "ALICE", 0)
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("alice001", found[0].ID)
	})

	s.Run("uses index when configured", func() {
		idx := newFakeIndex()
		s.Require().NoError(idx.IndexAccount(s.ctx, entity.Summary{ID: "ghost001", Email: "ghost@example.com"}))
		s.svc.Index = idx
		defer func() { s.svc.Index = nil }()
		found, err := s.svc.Search(s.ctx, s.admin, "ghost", 10)
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("ghost001", found[0].ID)
	})
}
