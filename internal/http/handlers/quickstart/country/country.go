// Package country определяет страну пользователя по IP для предзаполнения формы.
package country

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
)

// Handler определяет страну.
type Handler struct {
	log     *slog.Logger
	locator Locator
}

// Locator определяет страну по IP.
type Locator interface {
	Country(ctx context.Context, ip string) (catalog.Country, error)
}

// New создает новый Handler.
func New(log *slog.Logger, locator Locator) *Handler {
	return &Handler{log: log, locator: locator}
}

// ServeHTTP godoc
// @Summary Страна по IP
// @Description Сбой определения не является ошибкой: detected=false, UI оставляет выбор пользователю.
// @Tags QuickStart
// @Produce  json
// @Success 200 {object} response.Response
// @Router /quickstart/country [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quickstart.country"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	c, err := h.locator.Country(r.Context(), ip)
	if err != nil {
		log.Warn("failed to detect country", sl.Err(err))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{"detected": false}))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"detected":     true,
		"country_code": c.Code,
		"name":         c.Name,
	}))
}
