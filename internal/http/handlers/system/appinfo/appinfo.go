// Package appinfo сообщает UI окружение: вне production UI показывает бейдж TEST.
package appinfo

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/response"
)

// Info — сведения об окружении.
type Info struct {
	Environment string `json:"environment"`
	Production  bool   `json:"production"`
	Badge       string `json:"badge,omitempty"`
}

// Handler отдаёт Info.
type Handler struct {
	info Info
}

// New создает Handler для окружения env.
func New(env string, production bool) *Handler {
	info := Info{Environment: env, Production: production}
	if !production {
		info.Badge = "TEST"
	}
	return &Handler{info: info}
}

// ServeHTTP godoc
// @Summary Окружение приложения
// @Tags System
// @Produce  json
// @Success 200 {object} response.Response{data=Info}
// @Router /app [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.info))
}
