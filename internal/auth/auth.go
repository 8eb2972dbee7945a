// Package auth реализует вход и выход пользователя поверх внешнего API и
// серверной сессии.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// ErrInvalidCredentials возвращается, если внешний API отверг логин и пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// API описывает вызовы внешнего API, нужные для входа.
type API interface {
	Login(ctx context.Context, username, password string) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store сохраняет и удаляет сессии.
type Store interface {
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, id string) error
}

// PermissionRefresher перезагружает права сессии.
type PermissionRefresher interface {
	Refresh(ctx context.Context, sess *session.Session) bool
}

// Service управляет аутентификацией сессии.
type Service struct {
	api   API
	store Store
	perms PermissionRefresher
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(api API, store Store, perms PermissionRefresher, log *slog.Logger) *Service {
	return &Service{api: api, store: store, perms: perms, log: log}
}

// Login проверяет учётные данные и записывает пользователя в сессию.
// Загрузка прав выполняется по возможности: при сбое вход не отменяется.
func (s *Service) Login(ctx context.Context, sess *session.Session, username, password string) (*models.User, error) {
	const op = "auth.Login"
	log := s.log.With(sl.Op(op), slog.String("username", username))

	if err := s.api.Login(ctx, username, password); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.api.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: resolve user: %w", op, err)
	}

	s.rotate(ctx, sess)
	sess.SetUser(*user)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !s.perms.Refresh(ctx, sess) {
		log.Warn("logged in without permissions")
	}
	log.Info("user logged in", slog.Int("user_id", user.ID))
	return user, nil
}

// Establish записывает уже известного пользователя в сессию без проверки пароля.
// Используется быстрым стартом сразу после создания учётной записи.
func (s *Service) Establish(ctx context.Context, sess *session.Session, user models.User) error {
	const op = "auth.Establish"
	s.rotate(ctx, sess)
	sess.SetUser(user)
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !s.perms.Refresh(ctx, sess) {
		s.log.Warn("session established without permissions", sl.Op(op), slog.Int("user_id", user.ID))
	}
	return nil
}

// rotate выдаёт сессии новый идентификатор и удаляет запись под прежним.
func (s *Service) rotate(ctx context.Context, sess *session.Session) {
	const op = "auth.rotate"
	prev := sess.Rotate()
	if prev == "" {
		return
	}
	if err := s.store.Delete(ctx, prev); err != nil {
		s.log.Warn("failed to delete previous session", sl.Op(op), sl.Err(err))
	}
}

// Logout очищает все ключи сессии и удаляет её из хранилища.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	const op = "auth.Logout"
	userID := sess.UserID
	sess.Clear()
	if err := s.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged out", sl.Op(op), slog.Int("user_id", userID))
	return nil
}
