// Package profile отдаёт состояние текущей сессии: аутентификацию, данные
// пользователя и флаги прав. UI опрашивает его при старте вместо чтения
// sessionStorage.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
)

// View — представление сессии для UI.
type View struct {
	Authenticated        bool              `json:"authenticated"`
	UserID               int               `json:"user_id,omitempty"`
	Username             string            `json:"username,omitempty"`
	Name                 string            `json:"name,omitempty"`
	CountryCode          string            `json:"country_code,omitempty"`
	ConcurrentApplicants int               `json:"concurrent_applicants,omitempty"`
	LastApplicantID      int               `json:"applicant_userid,omitempty"`
	Permissions          permissions.Flags `json:"permissions"`
}

// Handler отдаёт View.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=View}
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := middlewarectx.FromContext(r.Context())
	render.JSON(w, r, response.StatusOKWithData(View{
		Authenticated:        sess.IsAuthenticated(),
		UserID:               sess.UserID,
		Username:             sess.Username,
		Name:                 sess.Name,
		CountryCode:          sess.CountryCode,
		ConcurrentApplicants: sess.ConcurrentApplicants,
		LastApplicantID:      sess.ApplicantUserID,
		Permissions:          permissions.For(sess).Flags(),
	}))
}
