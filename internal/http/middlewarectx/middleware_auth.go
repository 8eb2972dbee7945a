package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
)

// RequireAuth пропускает только аутентифицированные сессии. Остальным
// отвечает 401 с подсказкой перейти на экран входа.
func RequireAuth(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).IsAuthenticated() {
				log.Info("unauthenticated request",
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Unauthorized("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission пропускает сессии с указанным правом, остальным отвечает 403.
func RequirePermission(log *slog.Logger, c permissions.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := FromContext(r.Context())
			if !permissions.For(sess).Has(c) {
				log.Warn("access denied",
					slog.String("capability", string(c)),
					slog.Int("user_id", sess.UserID),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
