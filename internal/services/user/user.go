// Package services содержит бизнес-логику учётных записей: регистрацию,
// подтверждение почты, смену пароля и администрирование пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

var (
	// ErrForbidden — недостаточно прав.
	ErrForbidden = errors.New("access denied")
	// ErrSelfDelete — администратор пытается удалить собственную учётную запись.
	ErrSelfDelete = errors.New("cannot delete own account")
)

// API описывает вызовы внешнего API для учётных записей.
type API interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, id int, user models.User) error
	DeleteUser(ctx context.Context, id int) error
	ChangePassword(ctx context.Context, userID int, current, next string) error
	ListRoles(ctx context.Context) ([]models.Role, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
}

// Defaults — параметры новых учётных записей.
type Defaults struct {
	RoleName string
	RoleID   int
	// TrialPeriod — срок действия новой учётной записи.
	TrialPeriod time.Duration
}

// Service реализует операции над учётными записями.
type Service struct {
	api      API
	validate *validation.Validator
	defaults Defaults
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(api API, validate *validation.Validator, defaults Defaults, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, defaults: defaults, log: log, now: time.Now}
}

// ResolveRoleID ищет ID базовой роли по имени, при сбое возвращает ID из конфига.
func (s *Service) ResolveRoleID(ctx context.Context) int {
	const op = "services.user.ResolveRoleID"
	roles, err := s.api.ListRoles(ctx)
	if err != nil {
		s.log.Warn("failed to list roles, using configured role id", sl.Op(op), sl.Err(err))
		return s.defaults.RoleID
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, s.defaults.RoleName) {
			return r.ID
		}
	}
	s.log.Warn("role not found, using configured role id", sl.Op(op), slog.String("role", s.defaults.RoleName))
	return s.defaults.RoleID
}

// NewAccount собирает модель новой учётной записи базового уровня.
// Неактивная запись включается после подтверждения почты.
func (s *Service) NewAccount(ctx context.Context, email, name, phone, countryCode, password string, active bool) models.User {
	u := models.User{
		Username:             strings.ToLower(strings.TrimSpace(email)),
		Name:                 strings.TrimSpace(name),
		Phone:                phone,
		CountryCode:          strings.ToLower(countryCode),
		RoleID:               s.ResolveRoleID(ctx),
		Active:               active,
		ConcurrentApplicants: 1,
		Password:             password,
	}
	if s.defaults.TrialPeriod > 0 {
		u.ExpirationDate = s.now().Add(s.defaults.TrialPeriod).Format(models.DateLayout)
	}
	return u
}

// Register проверяет форму и создаёт учётную запись, затем просит API
// отправить письмо подтверждения; сбой отправки не отменяет регистрацию.
func (s *Service) Register(ctx context.Context, form models.RegisterForm) error {
	const op = "services.user.Register"
	errs := s.validate.Struct(form)
	if form.CountryCode != "" {
		if _, ok := catalog.Lookup(form.CountryCode); !ok {
			errs.Add("country_code", "field country_code is not a supported country")
		}
	}
	if !errs.Empty() {
		return errs
	}

	user := s.NewAccount(ctx, form.Email, form.Name, form.Phone, form.CountryCode, form.Password, false)
	if err := s.api.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.api.ResendVerification(ctx, user.Username); err != nil {
		s.log.Warn("failed to send verification email", sl.Op(op), sl.Err(err))
	}
	s.log.Info("user registered", sl.Op(op), slog.String("username", user.Username))
	return nil
}

// VerifyEmail подтверждает адрес.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.user.VerifyEmail"
	if strings.TrimSpace(token) == "" {
		return validation.FieldErrors{"token": "field token is a required field"}
	}
	if err := s.api.VerifyEmail(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResendVerification повторно отправляет письмо подтверждения.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	const op = "services.user.ResendVerification"
	form := models.ResendVerificationForm{Email: strings.ToLower(strings.TrimSpace(email))}
	if errs := s.validate.Struct(form); !errs.Empty() {
		return errs
	}
	if err := s.api.ResendVerification(ctx, form.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChangePassword меняет пароль текущего пользователя.
func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, form models.ChangePasswordForm) error {
	const op = "services.user.ChangePassword"
	if errs := s.validate.Struct(form); !errs.Empty() {
		return errs
	}
	if form.CurrentPassword == form.NewPassword {
		return validation.FieldErrors{"new_password": "field new_password must differ from the current password"}
	}
	if err := s.api.ChangePassword(ctx, sess.UserID, form.CurrentPassword, form.NewPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("password changed", sl.Op(op), slog.Int("user_id", sess.UserID))
	return nil
}

// List возвращает всех пользователей. Требует права manage_users.
func (s *Service) List(ctx context.Context, sess *session.Session) ([]models.User, error) {
	const op = "services.user.List"
	if !permissions.For(sess).CanManageUsers() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Update изменяет учётную запись. Требует права manage_users.
func (s *Service) Update(ctx context.Context, sess *session.Session, id int, form models.UserUpdateForm) error {
	const op = "services.user.Update"
	if !permissions.For(sess).CanManageUsers() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	errs := s.validate.Struct(form)
	if form.ExpirationDate != "" {
		if _, err := time.Parse(models.DateLayout, form.ExpirationDate); err != nil {
			errs.Add("expiration_date", "field expiration_date must be a date in format YYYY-MM-DD")
		}
	}
	if !errs.Empty() {
		return errs
	}

	existing, err := s.api.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	existing.Name = form.Name
	existing.Phone = form.Phone
	existing.CountryCode = strings.ToLower(form.CountryCode)
	existing.RoleID = form.RoleID
	existing.Active = form.Active
	existing.ExpirationDate = form.ExpirationDate
	existing.ConcurrentApplicants = form.ConcurrentApplicants
	existing.Password = ""

	if err := s.api.UpdateUser(ctx, id, *existing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user updated", sl.Op(op), slog.Int("id", id))
	return nil
}

// Delete удаляет учётную запись. Требует права manage_users.
func (s *Service) Delete(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.user.Delete"
	if !permissions.For(sess).CanManageUsers() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if id == sess.UserID {
		return fmt.Errorf("%s: %w", op, ErrSelfDelete)
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", sl.Op(op), slog.Int("id", id))
	return nil
}

// Roles возвращает список ролей для формы администратора.
func (s *Service) Roles(ctx context.Context, sess *session.Session) ([]models.Role, error) {
	const op = "services.user.Roles"
	if !permissions.For(sess).CanManageUsers() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	roles, err := s.api.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}
