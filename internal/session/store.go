package session

import (
	"context"
	"fmt"
	"time"
)

const keyPrefix = "fastvisa:session:"

// KV — минимальный контракт JSON-хранилища, которому удовлетворяет cache.Cache.
type KV interface {
	GetEx(ctx context.Context, key string, result any, expiration time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store хранит сессии в KV со скользящим временем жизни.
type Store struct {
	kv  KV
	ttl time.Duration
}

// NewStore создаёт хранилище сессий.
func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

// Load возвращает сессию по идентификатору и продлевает её время жизни.
// Если записи нет, возвращается пустая сессия с тем же идентификатором и found=false.
func (s *Store) Load(ctx context.Context, id string) (*Session, bool, error) {
	const op = "session.Load"
	sess := &Session{}
	found, err := s.kv.GetEx(ctx, key(id), sess, s.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return &Session{ID: id}, false, nil
	}
	sess.ID = id
	return sess, true, nil
}

// Save сохраняет сессию и продлевает её время жизни.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	const op = "session.Save"
	if sess.ID == "" {
		return fmt.Errorf("%s: session without id", op)
	}
	if err := s.kv.Set(ctx, key(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет сессию из хранилища.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session.Delete"
	if err := s.kv.Invalidate(ctx, key(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
