// Package remove удаляет учётную запись пользователя. Удалить себя нельзя.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	services "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler удаляет пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление пользователя.
type Service interface {
	Delete(ctx context.Context, sess *session.Session, id int) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Tags Users
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Попытка удалить себя"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.Delete(r.Context(), middlewarectx.FromContext(r.Context()), id); err != nil {
		status, msg := response.APIStatus(err), "failed to delete user"
		switch {
		case errors.Is(err, services.ErrForbidden):
			status, msg = http.StatusForbidden, "access denied"
		case errors.Is(err, services.ErrSelfDelete):
			status, msg = http.StatusBadRequest, "cannot delete own account"
		}
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("user deleted", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted_id": id}))
}
