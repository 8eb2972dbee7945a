// Package list отдаёт администратору список пользователей и ролей.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	services "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler отдаёт список пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение пользователей и ролей.
type Service interface {
	List(ctx context.Context, sess *session.Session) ([]models.User, error)
	Roles(ctx context.Context, sess *session.Session) ([]models.Role, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Роли отдаются вместе со списком для формы изменения. Требует manage_users.
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess := middlewarectx.FromContext(r.Context())
	users, err := h.service.List(r.Context(), sess)
	if err != nil {
		status, msg := response.APIStatus(err), "could not load users"
		if errors.Is(err, services.ErrForbidden) {
			status, msg = http.StatusForbidden, "access denied"
		}
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	roles, err := h.service.Roles(r.Context(), sess)
	if err != nil {
		log.Warn("failed to list roles", sl.Err(err))
		roles = []models.Role{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": users,
		"roles": roles,
	}))
}
