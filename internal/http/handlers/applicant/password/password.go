// Package password отдаёт пароль AIS заявителя владельцу или пользователю
// с правом manage_applicants.
package password

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
	services "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler отдаёт пароль AIS.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение пароля AIS.
type Service interface {
	Password(ctx context.Context, sess *session.Session, id int) (string, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пароль AIS заявителя
// @Tags Applicants
// @Produce  json
// @Param id path int true "ID заявителя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 404 {object} response.ErrorResponse "Заявитель не найден"
// @Router /applicants/{id}/password [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.password"

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

	pw, err := h.service.Password(r.Context(), middlewarectx.FromContext(r.Context()), id)
	if err != nil {
		status, msg := response.APIStatus(err), "could not load password"
		if errors.Is(err, services.ErrForbidden) {
			status, msg = http.StatusForbidden, "access denied"
		}
		log.Error("failed to load applicant password", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"password": pw,
	}))
}
