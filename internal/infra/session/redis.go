// Package session содержит хранилища сессий диалога бронирования с TTL.
//
// Сессии короткоживущие и некритичные: потеря сессии означает лишь то, что
// пользователю придется начать диалог заново командой /start.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkuznecov/zapisly/internal/domain"
)

var (
	// ErrStore возвращается при ошибках обращения к хранилищу сессий
	ErrStore = errors.New("session.store: storage error")
)

// RedisStore хранилище сессий в Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает хранилище сессий поверх существующего клиента Redis
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get возвращает сессию по ключу.
// Отсутствующая или истекшая сессия - это (nil, nil), не ошибка.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.BookingSession, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - redis get: %v", ErrStore, err)
	}

	var sess domain.BookingSession
	if err := json.Unmarshal(data, &sess); err != nil {
		// Повреждённая сессия равносильна отсутствующей
		return nil, nil
	}

	return &sess, nil
}

// Put сохраняет сессию с указанным TTL, перезаписывая существующую
func (s *RedisStore) Put(ctx context.Context, key string, sess *domain.BookingSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: Put - marshal session: %v", ErrStore, err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: Put - redis set: %v", ErrStore, err)
	}

	return nil
}

// Forget удаляет сессию. Удаление отсутствующей сессии не является ошибкой.
func (s *RedisStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: Forget - redis del: %v", ErrStore, err)
	}
	return nil
}
