// internal/conversation/redis_store.go
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore - хранилище сессий в Redis. Сессии живут с TTL, чтобы
// брошенные диалоги со временем исчезали; каждое сохранение продлевает срок.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "journalbot:session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(userID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, userID)
}

// GetOrCreate читает сессию из Redis; отсутствующий ключ дает новую
// сессию в фазе Idle
func (r *RedisStore) GetOrCreate(ctx context.Context, userID int64) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{
				UserID:    userID,
				Phase:     PhaseIdle,
				UpdatedAt: time.Now().UTC(),
			}, nil
		}
		return nil, fmt.Errorf("RedisStore.GetOrCreate: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("RedisStore.GetOrCreate: unmarshal: %w", err)
	}
	return &session, nil
}

// Save сериализует сессию и продлевает её TTL
func (r *RedisStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("RedisStore.Save: marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStore.Save: %w", err)
	}
	return nil
}
