// Package services содержит бизнес-логику экранов заявителей: проверку доступа,
// валидацию форм, лимит одновременных поисков и вызовы внешнего API.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

var (
	// ErrForbidden — у пользователя нет прав на заявителя.
	ErrForbidden = errors.New("access denied")
	// ErrConcurrencyLimit — достигнут лимит одновременно запущенных поисков.
	ErrConcurrencyLimit = errors.New("concurrent search limit reached")
)

// API описывает вызовы внешнего API, которые нужны сервису.
type API interface {
	ListApplicants(ctx context.Context) ([]models.Applicant, error)
	ListUserApplicants(ctx context.Context, userID int) ([]models.Applicant, error)
	SearchApplicants(ctx context.Context, query string) ([]models.Applicant, error)
	GetApplicant(ctx context.Context, id int) (*models.Applicant, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	CreateApplicant(ctx context.Context, a models.Applicant) (int, error)
	UpdateApplicant(ctx context.Context, id int, a models.Applicant) error
	DeleteApplicant(ctx context.Context, id int) error
	ApplicantPassword(ctx context.Context, id int) (string, error)
	AuthenticateAIS(ctx context.Context, creds models.AISCredentials) (*models.AISProfile, error)
	StartSearch(ctx context.Context, applicantID int) error
	StopSearch(ctx context.Context, applicantID int) error
}

// Service реализует операции над заявителями от имени сессии.
type Service struct {
	api      API
	validate *validation.Validator
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(api API, validate *validation.Validator, log *slog.Logger) *Service {
	return &Service{api: api, validate: validate, log: log}
}

func canAccess(sess *session.Session, a *models.Applicant) bool {
	perms := permissions.For(sess)
	return a.UserID == sess.UserID || perms.CanViewAllApplicants() || perms.CanManageApplicants()
}

func canModify(sess *session.Session, a *models.Applicant) bool {
	return a.UserID == sess.UserID || permissions.For(sess).CanManageApplicants()
}

// List возвращает заявителей, видимых сессии. Фильтр query доступен только
// пользователям с правом просмотра всех заявителей.
func (s *Service) List(ctx context.Context, sess *session.Session, query string) ([]models.Applicant, error) {
	const op = "services.applicant.List"
	var (
		out []models.Applicant
		err error
	)
	query = strings.TrimSpace(query)
	switch {
	case permissions.For(sess).CanViewAllApplicants() && query != "":
		out, err = s.api.SearchApplicants(ctx, query)
	case permissions.For(sess).CanViewAllApplicants():
		out, err = s.api.ListApplicants(ctx)
	default:
		out, err = s.api.ListUserApplicants(ctx, sess.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []models.Applicant{}
	}
	return out, nil
}

// Get возвращает заявителя, если сессия имеет к нему доступ.
func (s *Service) Get(ctx context.Context, sess *session.Session, id int) (*models.Applicant, error) {
	const op = "services.applicant.Get"
	a, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !canAccess(sess, a) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	a.AISPassword = ""
	return a, nil
}

func (s *Service) build(sess *session.Session, form models.ApplicantForm) models.Applicant {
	a := models.Applicant{
		UserID:          sess.UserID,
		Username:        sess.Username,
		Name:            strings.TrimSpace(form.Name),
		AISUsername:     strings.TrimSpace(form.AISUsername),
		AISPassword:     form.AISPassword,
		AISScheduleID:   strings.TrimSpace(form.AISScheduleID),
		CountryCode:     strings.ToLower(form.CountryCode),
		TargetStartMode: models.StartMode(form.TargetStartMode),
		TargetEndDate:   form.TargetEndDate,
		TargetCityCodes: strings.Join(form.TargetCityCodes, ","),
		Active:          form.Active,
	}
	if a.TargetStartMode == models.StartInDays {
		a.TargetStartDays = form.TargetStartDays
	} else {
		a.TargetStartDate = form.TargetStartDate
	}
	return a
}

// Create проверяет форму и создаёт заявителя. Пользователь с правом управления
// может указать владельца через form.UserID.
func (s *Service) Create(ctx context.Context, sess *session.Session, form models.ApplicantForm) (int, error) {
	const op = "services.applicant.Create"
	if errs := s.validate.Applicant(form, true); !errs.Empty() {
		return 0, errs
	}

	a := s.build(sess, form)
	if form.UserID != 0 && form.UserID != sess.UserID {
		if !permissions.For(sess).CanManageApplicants() {
			return 0, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
		a.UserID = form.UserID
		a.Username = ""
	}
	a.SearchStatus = models.SearchStopped

	id, err := s.api.CreateApplicant(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("applicant created", sl.Op(op), slog.Int("id", id), slog.Int("user_id", a.UserID))
	return id, nil
}

// Update проверяет форму и обновляет заявителя. Пустой пароль AIS сохраняет прежний,
// статус поиска и владелец не меняются.
func (s *Service) Update(ctx context.Context, sess *session.Session, id int, form models.ApplicantForm) error {
	const op = "services.applicant.Update"
	if errs := s.validate.Applicant(form, false); !errs.Empty() {
		return errs
	}

	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !canModify(sess, existing) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	a := s.build(sess, form)
	a.ID = id
	a.UserID = existing.UserID
	a.Username = existing.Username
	a.SearchStatus = existing.SearchStatus
	if a.AISPassword == "" {
		a.AISPassword = existing.AISPassword
	}
	if err := s.api.UpdateApplicant(ctx, id, a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("applicant updated", sl.Op(op), slog.Int("id", id))
	return nil
}

// Delete удаляет заявителя.
func (s *Service) Delete(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.applicant.Delete"
	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !canModify(sess, existing) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if err := s.api.DeleteApplicant(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("applicant deleted", sl.Op(op), slog.Int("id", id))
	return nil
}

// Password возвращает сохранённый пароль AIS владельцу или пользователю с правом управления.
func (s *Service) Password(ctx context.Context, sess *session.Session, id int) (string, error) {
	const op = "services.applicant.Password"
	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !canModify(sess, existing) {
		return "", fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	pwd, err := s.api.ApplicantPassword(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return pwd, nil
}

// Authenticate проверяет учётные данные AIS и возвращает данные для автозаполнения формы.
func (s *Service) Authenticate(ctx context.Context, creds models.AISCredentials) (*models.AISProfile, error) {
	const op = "services.applicant.Authenticate"
	if errs := s.validate.Struct(creds); !errs.Empty() {
		return nil, errs
	}
	if _, ok := catalog.Lookup(creds.CountryCode); !ok {
		return nil, validation.FieldErrors{"country_code": "field country_code is not a supported country"}
	}
	profile, err := s.api.AuthenticateAIS(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// defaultConcurrencyLimit — лимит по умолчанию, если у пользователя он не задан.
const defaultConcurrencyLimit = 1

// concurrencyLimit возвращает лимит владельца заявителя. Лимит своей учётной
// записи берётся из сессии, чужой запрашивается у API.
func (s *Service) concurrencyLimit(ctx context.Context, sess *session.Session, ownerID int) (int, error) {
	limit := sess.ConcurrentApplicants
	if ownerID != sess.UserID {
		user, err := s.api.GetUser(ctx, ownerID)
		if err != nil {
			return 0, err
		}
		limit = user.ConcurrentApplicants
	}
	if limit <= 0 {
		limit = defaultConcurrencyLimit
	}
	return limit, nil
}

// Start запускает поиск. Без права search_unlimited число запущенных поисков
// владельца не может превышать лимит сессии.
func (s *Service) Start(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.applicant.Start"
	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !canModify(sess, existing) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if !permissions.For(sess).CanSearchUnlimited() {
		owned, err := s.api.ListUserApplicants(ctx, existing.UserID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		limit, err := s.concurrencyLimit(ctx, sess, existing.UserID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		running := 0
		for _, a := range owned {
			if a.ID != id && a.SearchStatus == models.SearchRunning {
				running++
			}
		}
		if running >= limit {
			return fmt.Errorf("%s: %w: %d of %d running", op, ErrConcurrencyLimit, running, limit)
		}
	}

	if err := s.api.StartSearch(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("search started", sl.Op(op), slog.Int("id", id))
	return nil
}

// Stop останавливает поиск.
func (s *Service) Stop(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.applicant.Stop"
	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !canModify(sess, existing) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if err := s.api.StopSearch(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("search stopped", sl.Op(op), slog.Int("id", id))
	return nil
}

// ClearStatus сбрасывает статус поиска в Stopped. Требует права clear_status.
func (s *Service) ClearStatus(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.applicant.ClearStatus"
	if !permissions.For(sess).CanClearStatus() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	existing, err := s.api.GetApplicant(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	existing.SearchStatus = models.SearchStopped
	if err := s.api.UpdateApplicant(ctx, id, *existing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("search status cleared", sl.Op(op), slog.Int("id", id))
	return nil
}
