// Package refresh перезагружает закешированные права сессии по явному запросу.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler обновляет права.
type Handler struct {
	log  *slog.Logger
	gate Gate
}

// Gate описывает обновление кеша прав.
type Gate interface {
	Refresh(ctx context.Context, sess *session.Session) bool
}

// New создает новый Handler.
func New(log *slog.Logger, gate Gate) *Handler {
	return &Handler{log: log, gate: gate}
}

// ServeHTTP godoc
// @Summary Обновить права
// @Description При сбое остаются прежние права, refreshed=false.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response
// @Router /me/permissions/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me.refresh"

	sess := middlewarectx.FromContext(r.Context())
	ok := h.gate.Refresh(r.Context(), sess)
	h.log.Info("permissions refresh",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("refreshed", ok),
	)

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"refreshed":   ok,
		"permissions": permissions.For(sess).Flags(),
	}))
}
