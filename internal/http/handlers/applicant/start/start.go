// Package start запускает удалённый поиск записи для заявителя.
//
// Число одновременно запущенных заявителей ограничено concurrent_applicants
// пользователя; право search_unlimited снимает ограничение.
package start

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

// Handler запускает поиск.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает запуск поиска.
type Service interface {
	Start(ctx context.Context, sess *session.Session, id int) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить поиск
// @Tags Applicants
// @Produce  json
// @Param id path int true "ID заявителя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 409 {object} response.ErrorResponse "Достигнут лимит одновременных поисков"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /applicants/{id}/start [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.start"

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

	if err := h.service.Start(r.Context(), middlewarectx.FromContext(r.Context()), id); err != nil {
		status, msg := response.APIStatus(err), "could not start the search"
		switch {
		case errors.Is(err, services.ErrForbidden):
			status, msg = http.StatusForbidden, "access denied"
		case errors.Is(err, services.ErrConcurrencyLimit):
			status, msg = http.StatusConflict, "concurrent search limit reached"
		}
		log.Error("failed to start search", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("search started", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
