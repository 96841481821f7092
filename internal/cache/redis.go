package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps session-cookie tokens in redis. A token resolves
// to the authenticated principal until its TTL expires.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(cfg config.RedisConfig, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (s *SessionStore) Create(ctx context.Context, principal domain.Principal) (string, error) {
	payload, err := json.Marshal(principal)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns nil without error for an unknown or expired token.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Principal, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var principal domain.Principal
	if err := json.Unmarshal(data, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}

func sessionKey(token string) string {
	return "session:" + token
}
