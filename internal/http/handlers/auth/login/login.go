// Package login реализует HTTP-обработчик входа пользователя.
//
// Handler декодирует учётные данные, проверяет поля, делегирует вход сервису
// auth и возвращает профиль пользователя вместе с флагами прав.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/auth"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger          // Логгер для записи операций и ошибок
	service  Service               // Сервис входа в серверную сессию
	validate *validation.Validator // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, sess *session.Session, username, password string) (*models.User, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service, validate *validation.Validator) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Проверяет логин и пароль во внешнем API и записывает пользователя в сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginForm true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if errs := h.validate.Struct(req); !errs.Empty() {
		log.Info("validation failed", slog.String("fields", errs.Error()))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(errs))
		return
	}

	sess := middlewarectx.FromContext(r.Context())
	user, err := h.service.Login(r.Context(), sess, req.Username, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		w.WriteHeader(response.APIStatus(err))
		render.JSON(w, r, response.Error("login failed, please try again"))
		return
	}

	log.Info("login success", slog.Int("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":     user.ID,
		"username":    user.Username,
		"name":        sess.Name,
		"permissions": permissions.For(sess).Flags(),
	}))
}
