package permissions

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Fetcher загружает права пользователя из внешнего API.
type Fetcher interface {
	UserPermissions(ctx context.Context, userID int) ([]models.Permission, error)
}

// Saver сохраняет сессию.
type Saver interface {
	Save(ctx context.Context, sess *session.Session) error
}

// Gate обновляет закешированные в сессии права.
type Gate struct {
	fetcher Fetcher
	saver   Saver
	log     *slog.Logger
}

// NewGate создаёт Gate.
func NewGate(fetcher Fetcher, saver Saver, log *slog.Logger) *Gate {
	return &Gate{fetcher: fetcher, saver: saver, log: log}
}

// Refresh перезапрашивает права пользователя сессии и перезаписывает кеш.
// Ошибки логируются, кеш при этом остаётся прежним.
func (g *Gate) Refresh(ctx context.Context, sess *session.Session) bool {
	const op = "permissions.Refresh"
	log := g.log.With(sl.Op(op))

	if !sess.IsAuthenticated() {
		log.Warn("refresh requested for anonymous session")
		return false
	}

	perms, err := g.fetcher.UserPermissions(ctx, sess.UserID)
	if err != nil {
		log.Error("failed to fetch permissions", slog.Int("user_id", sess.UserID), sl.Err(err))
		return false
	}

	previous := sess.Permissions
	sess.Permissions = perms
	if err := g.saver.Save(ctx, sess); err != nil {
		sess.Permissions = previous
		log.Error("failed to store permissions", slog.Int("user_id", sess.UserID), sl.Err(err))
		return false
	}
	log.Info("permissions refreshed", slog.Int("user_id", sess.UserID), slog.Int("count", len(perms)))
	return true
}

// For возвращает набор прав сессии.
func For(sess *session.Session) Set {
	if sess == nil {
		return NewSet(nil)
	}
	return NewSet(sess.Permissions)
}
