// Package password реализует HTTP-обработчик смены пароля текущего пользователя.
package password

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Handler обрабатывает смену пароля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, sess *session.Session, form models.ChangePasswordForm) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Смена пароля
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.ChangePasswordForm true "Текущий и новый пароль"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неверный текущий пароль"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ChangePasswordForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err := h.service.ChangePassword(r.Context(), middlewarectx.FromContext(r.Context()), req)
	var fieldErrs validation.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(fieldErrs))
		return
	case errors.Is(err, apiclient.ErrUnauthorized):
		log.Info("current password rejected")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validation.FieldErrors{
			"current_password": "field current_password is incorrect",
		}))
		return
	default:
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(response.APIStatus(err))
		render.JSON(w, r, response.Error("could not change password"))
		return
	}

	log.Info("password changed")
	render.JSON(w, r, response.OK())
}
