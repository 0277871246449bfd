// Package redisstore keeps sessions and pending interest projections in Redis.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

const projectionTTL = 15 * time.Minute

func sessionKey(accountID string) string { return "account:session:" + accountID }
func projectionKey(sid string) string    { return "interest:projection:" + sid }

type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore keeps sessions for ttl after their last save.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, sess entity.Session) error {
	key := sessionKey(sess.AccountID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sess.ID,
		"account_id": sess.AccountID,
		"role":       string(sess.Role),
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, accountID string) (entity.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(accountID)).Result()
	if err != nil {
		return entity.Session{}, err
	}
	if len(data) == 0 || data["sid"] == "" {
		return entity.Session{}, entity.ErrNotFound
	}
	role, err := entity.ParseRole(data["role"])
	if err != nil {
		return entity.Session{}, err
	}
	created, _ := time.Parse(time.RFC3339Nano, data["created_at"])
	return entity.Session{
		ID:        data["sid"],
		AccountID: data["account_id"],
		Role:      role,
		CreatedAt: created,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, accountID string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionKey(accountID))
}

func (s *SessionStore) SaveProjection(ctx context.Context, sessionID string, p entity.Projection) error {
	return helpers.RedisSetJSON(ctx, s.rdb, projectionKey(sessionID), p, projectionTTL)
}

func (s *SessionStore) TakeProjection(ctx context.Context, sessionID string) (entity.Projection, error) {
	var p entity.Projection
	ok, err := helpers.RedisTakeJSON(ctx, s.rdb, projectionKey(sessionID), &p)
	if err != nil {
		return entity.Projection{}, err
	}
	if !ok {
		return entity.Projection{}, entity.ErrNoProjection
	}
	return p, nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
