// Package status отдаёт прогресс сценария быстрого старта для экрана загрузки.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/quickstart"
)

// Handler отдаёт прогресс.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение прогресса сценария.
type Service interface {
	Status(ctx context.Context, flowID string) (*quickstart.Progress, bool, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Прогресс быстрого старта
// @Tags QuickStart
// @Produce  json
// @Param id path string true "ID сценария"
// @Success 200 {object} response.Response{data=quickstart.Progress}
// @Failure 404 {object} response.ErrorResponse "Сценарий не найден или истёк"
// @Router /quickstart/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quickstart.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	p, found, err := h.service.Status(r.Context(), id)
	if err != nil {
		log.Error("failed to read quick start progress", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read progress"))
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("quick start not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(p))
}
