package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

type SessionStoreSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	store *SessionStore
	ctx   context.Context
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.rdb = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.store = NewSessionStore(s.rdb, time.Hour)
	s.ctx = context.Background()
}

func (s *SessionStoreSuite) TearDownTest() {
	_ = s.rdb.Close()
}

func (s *SessionStoreSuite) TestSaveGetDelete() {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sess := entity.Session{ID: "sid-1", AccountID: "acc00001", Role: entity.RoleAdministrator, CreatedAt: created}
	s.Require().NoError(s.store.Save(s.ctx, sess))

	got, err := s.store.Get(s.ctx, "acc00001")
	s.Require().NoError(err)
	s.Equal(sess.ID, got.ID)
	s.Equal(entity.RoleAdministrator, got.Role)
	s.True(created.Equal(got.CreatedAt))
	s.Equal(time.Hour, s.mr.TTL(sessionKey("acc00001")))

	s.Require().NoError(s.store.Delete(s.ctx, "acc00001"))
	_, err = s.store.Get(s.ctx, "acc00001")
	s.ErrorIs(err, entity.ErrNotFound)
}

func (s *SessionStoreSuite) TestSessionExpires() {
	s.Require().NoError(s.store.Save(s.ctx, entity.Session{ID: "sid-1", AccountID: "acc00001", Role: entity.RoleStandard}))
	s.mr.FastForward(2 * time.Hour)
	_, err := s.store.Get(s.ctx, "acc00001")
	s.ErrorIs(err, entity.ErrNotFound)
}

func (s *SessionStoreSuite) TestProjectionIsTakenOnce() {
	p := entity.Projection{
		AccountID:   "acc00001",
		Mode:        entity.InterestLiteral,
		Rate:        decimal.NewFromInt(10),
		Periods:     2,
		BaseBalance: decimal.NewFromInt(100),
		Preview:     decimal.NewFromInt(110),
	}
	s.Require().NoError(s.store.SaveProjection(s.ctx, "sid-1", p))

	got, err := s.store.TakeProjection(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.True(got.Preview.Equal(p.Preview))
	s.True(got.BaseBalance.Equal(p.BaseBalance))
	s.Equal(2, got.Periods)

	_, err = s.store.TakeProjection(s.ctx, "sid-1")
	s.ErrorIs(err, entity.ErrNoProjection)
}

func (s *SessionStoreSuite) TestProjectionExpires() {
	s.Require().NoError(s.store.SaveProjection(s.ctx, "sid-1", entity.Projection{AccountID: "acc00001"}))
	s.mr.FastForward(projectionTTL + time.Second)
	_, err := s.store.TakeProjection(s.ctx, "sid-1")
	s.ErrorIs(err, entity.ErrNoProjection)
}
