package quickstart

import (
	"context"
	"fmt"
	"time"
)

const trackerPrefix = "fastvisa:quickstart:"

// Progress — состояние сценария, которое опрашивает UI.
type Progress struct {
	Stage    Stage  `json:"stage"`
	Step     Step   `json:"step"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Done     bool   `json:"done"`
}

// Tracker хранит прогресс сценария по идентификатору.
type Tracker interface {
	Update(ctx context.Context, flowID string, p Progress) error
	Get(ctx context.Context, flowID string) (*Progress, bool, error)
}

// KV — JSON-хранилище, которому удовлетворяет cache.Cache.
type KV interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// RedisTracker хранит прогресс в Redis с ограниченным временем жизни.
type RedisTracker struct {
	kv  KV
	ttl time.Duration
}

// NewRedisTracker создаёт трекер поверх KV.
func NewRedisTracker(kv KV, ttl time.Duration) *RedisTracker {
	return &RedisTracker{kv: kv, ttl: ttl}
}

// Update перезаписывает прогресс сценария.
func (t *RedisTracker) Update(ctx context.Context, flowID string, p Progress) error {
	const op = "quickstart.RedisTracker.Update"
	if err := t.kv.Set(ctx, trackerPrefix+flowID, p, t.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает прогресс; found=false, если сценарий неизвестен или истёк.
func (t *RedisTracker) Get(ctx context.Context, flowID string) (*Progress, bool, error) {
	const op = "quickstart.RedisTracker.Get"
	var p Progress
	found, err := t.kv.Get(ctx, trackerPrefix+flowID, &p)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return &p, true, nil
}
