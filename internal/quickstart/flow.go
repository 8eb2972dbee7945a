// Package quickstart создаёт учётную запись базового уровня и первого
// заявителя за один проход с минимальным вводом от пользователя.
package quickstart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/lib/passgen"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

const (
	// PendingName и PendingSchedule подставляются, если AIS недоступна.
	PendingName     = "Pending"
	PendingSchedule = "pending"

	defaultSearchWindow = 120 * 24 * time.Hour
	placeholderDomain   = "users.fastvisa.app"
)

// API описывает вызовы внешнего API, которые делает сценарий.
type API interface {
	AuthenticateAIS(ctx context.Context, creds models.AISCredentials) (*models.AISProfile, error)
	NotifyFailure(ctx context.Context, notice models.FailureNotice) error
	CreateUser(ctx context.Context, user models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateApplicant(ctx context.Context, a models.Applicant) (int, error)
	Login(ctx context.Context, username, password string) error
	StartSearch(ctx context.Context, applicantID int) error
}

// Accounts собирает модель новой учётной записи.
type Accounts interface {
	NewAccount(ctx context.Context, email, name, phone, countryCode, password string, active bool) models.User
}

// Sessions записывает пользователя в сессию.
type Sessions interface {
	Establish(ctx context.Context, sess *session.Session, user models.User) error
}

// Options — настройки сценария.
type Options struct {
	// SearchWindow — конец окна поиска относительно сегодняшнего дня.
	SearchWindow time.Duration
	Metrics      *Metrics
}

// Result — итог успешного сценария.
type Result struct {
	FlowID      string `json:"flow_id"`
	Stage       Stage  `json:"stage"`
	Redirect    string `json:"redirect,omitempty"`
	ApplicantID int    `json:"applicant_id,omitempty"`
	UserID      int    `json:"user_id,omitempty"`
	Username    string `json:"username,omitempty"`

	// Password — сгенерированный пароль учётной записи, отдаётся один раз.
	Password string   `json:"password,omitempty"`
	Warnings []string `json:"warnings"`
}

// StepError — сбой шага с политикой Fatal.
type StepError struct {
	Step    Step
	Message string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("quickstart: step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Flow выполняет шаги быстрого старта.
type Flow struct {
	api       API
	accounts  Accounts
	sessions  Sessions
	validator *validation.Validator
	tracker   Tracker
	window    time.Duration
	metrics   *Metrics
	log       *slog.Logger

	now         func() time.Time
	newID       func() string
	genPassword func(n int) (string, error)
}

// NewFlow создаёт сценарий быстрого старта.
func NewFlow(api API, accounts Accounts, sessions Sessions, validate *validation.Validator,
	tracker Tracker, opts Options, log *slog.Logger) *Flow {
	window := opts.SearchWindow
	if window <= 0 {
		window = defaultSearchWindow
	}
	return &Flow{
		api:         api,
		accounts:    accounts,
		sessions:    sessions,
		validator:   validate,
		tracker:     tracker,
		window:      window,
		metrics:     opts.Metrics,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
		genPassword: passgen.Generate,
	}
}

// run — состояние одного прохода.
type run struct {
	ctx    context.Context
	sess   *session.Session
	form   models.QuickStartForm
	flowID string
	log    *slog.Logger

	country     catalog.Country
	password    string
	profile     models.AISProfile
	account     models.User
	user        models.User
	applicantID int
	redirect    string
}

// Status возвращает прогресс сценария.
func (f *Flow) Status(ctx context.Context, flowID string) (*Progress, bool, error) {
	const op = "quickstart.Status"
	p, found, err := f.tracker.Get(ctx, flowID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return p, found, nil
}

// Run выполняет все шаги по порядку. Результат возвращается и при ошибке:
// в нём лежит идентификатор сценария и стадия, на которую откатился UI.
func (f *Flow) Run(ctx context.Context, sess *session.Session, form models.QuickStartForm) (*Result, error) {
	const op = "quickstart.Run"
	r := &run{
		ctx:     ctx,
		sess:    sess,
		form:    form,
		flowID:  f.newID(),
		profile: models.AISProfile{ScheduleID: PendingSchedule, ApplicantName: PendingName},
	}
	r.log = f.log.With(sl.Op(op), slog.String("flow_id", r.flowID))
	res := &Result{FlowID: r.flowID, Stage: StageForm, Warnings: []string{}}

	for _, d := range steps {
		res.Stage = d.stage
		f.track(r, Progress{Stage: d.stage, Step: d.step})

		err := d.fn(f, r)
		if err == nil {
			continue
		}
		f.metrics.stepFailed(d.step, d.policy)
		if d.policy == BestEffort {
			r.log.Warn("quick start step failed, continuing",
				slog.String("step", string(d.step)), slog.Int("api_status", apiclient.StatusCode(err)), sl.Err(err))
			res.Warnings = append(res.Warnings, d.message)
			continue
		}

		r.log.Error("quick start aborted",
			slog.String("step", string(d.step)), slog.Int("api_status", apiclient.StatusCode(err)), sl.Err(err))
		res.Stage = StageForm
		f.track(r, Progress{Stage: StageForm, Step: d.step, Error: d.message})
		f.metrics.finished(false)
		return res, &StepError{Step: d.step, Message: d.message, Err: err}
	}

	res.Redirect = r.redirect
	res.ApplicantID = r.applicantID
	res.UserID = r.user.ID
	res.Username = r.user.Username
	res.Password = r.password
	f.track(r, Progress{Stage: StageApplicant, Step: StepRedirect, Redirect: r.redirect, Done: true})
	f.metrics.finished(true)
	r.log.Info("quick start completed", slog.Int("user_id", r.user.ID), slog.Int("applicant_id", r.applicantID))
	return res, nil
}

// track не прерывает сценарий: без трекера UI просто не увидит промежуточные стадии.
func (f *Flow) track(r *run, p Progress) {
	if err := f.tracker.Update(r.ctx, r.flowID, p); err != nil {
		r.log.Warn("failed to update quick start progress", sl.Err(err))
	}
}

func (f *Flow) validate(r *run) error {
	r.form.CountryCode = strings.ToLower(strings.TrimSpace(r.form.CountryCode))
	r.form.Email = strings.ToLower(strings.TrimSpace(r.form.Email))
	if errs := f.validator.QuickStart(r.form); !errs.Empty() {
		return errs
	}
	country, ok := catalog.Lookup(r.form.CountryCode)
	if !ok {
		return validation.FieldErrors{"country_code": "field country_code is not a supported country"}
	}
	r.country = country
	return nil
}

func (f *Flow) generatePassword(r *run) error {
	pw, err := f.genPassword(passgen.DefaultLength)
	if err != nil {
		return err
	}
	r.password = pw
	return nil
}

// authenticateAIS пропускается для стран без городов. При сбое уведомляет
// администратора, а заявитель создаётся с данными-заглушками.
func (f *Flow) authenticateAIS(r *run) error {
	if !r.country.HasCities() {
		return nil
	}
	profile, err := f.api.AuthenticateAIS(r.ctx, models.AISCredentials{
		Username:    r.form.Email,
		Password:    r.form.Password,
		CountryCode: r.country.Code,
	})
	if err == nil && profile.ScheduleID == "" {
		err = errors.New("empty schedule id")
	}
	if err != nil {
		notice := models.FailureNotice{Email: r.form.Email, CountryCode: r.country.Code, Reason: err.Error()}
		if nerr := f.api.NotifyFailure(r.ctx, notice); nerr != nil {
			r.log.Warn("failed to notify admin about AIS failure", sl.Err(nerr))
		}
		return err
	}
	r.profile.ScheduleID = profile.ScheduleID
	if profile.ApplicantName != "" {
		r.profile.ApplicantName = profile.ApplicantName
	}
	return nil
}

func (f *Flow) createUser(r *run) error {
	username := r.form.Email
	if username == "" {
		username = fmt.Sprintf("quickstart-%s@%s", strings.SplitN(r.flowID, "-", 2)[0], placeholderDomain)
	}
	r.account = f.accounts.NewAccount(r.ctx, username, r.profile.ApplicantName, r.form.Phone, r.country.Code, r.password, true)
	return f.api.CreateUser(r.ctx, r.account)
}

// resolveUserID перечитывает пользователя: создание не возвращает его ID.
func (f *Flow) resolveUserID(r *run) error {
	user, err := f.api.FindUserByUsername(r.ctx, r.account.Username)
	if err != nil {
		return err
	}
	if user.ID == 0 {
		return errors.New("user has no id")
	}
	r.user = *user
	return nil
}

func (f *Flow) createApplicant(r *run) error {
	id, err := f.api.CreateApplicant(r.ctx, models.Applicant{
		UserID:          r.user.ID,
		Username:        r.user.Username,
		Name:            r.profile.ApplicantName,
		AISUsername:     r.form.Email,
		AISPassword:     r.form.Password,
		AISScheduleID:   r.profile.ScheduleID,
		CountryCode:     r.country.Code,
		TargetStartMode: models.StartInDays,
		TargetStartDays: 1,
		TargetEndDate:   f.now().Add(f.window).Format(models.DateLayout),
		TargetCityCodes: r.country.CityCodes(),
		Active:          true,
		SearchStatus:    models.SearchStopped,
	})
	if err != nil {
		return err
	}
	r.applicantID = id
	return nil
}

func (f *Flow) login(r *run) error {
	return f.api.Login(r.ctx, r.account.Username, r.password)
}

func (f *Flow) persistSession(r *run) error {
	return f.sessions.Establish(r.ctx, r.sess, r.user)
}

func (f *Flow) startSearch(r *run) error {
	return f.api.StartSearch(r.ctx, r.applicantID)
}

func (f *Flow) redirect(r *run) error {
	r.redirect = fmt.Sprintf("/applicants/%d", r.applicantID)
	return nil
}
