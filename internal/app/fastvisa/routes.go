// Package fastvisa собирает HTTP-приложение: зависимости, маршруты и сервер.
package fastvisa

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/fastvisa/internal/auth"
	"github.com/magabrotheeeer/fastvisa/internal/cache"
	"github.com/magabrotheeeer/fastvisa/internal/geo"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/authenticate"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/clearstatus"
	applicantcreate "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/create"
	applicantlist "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/list"
	applicantpassword "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/password"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/read"
	applicantremove "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/remove"
	searchstart "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/start"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/stop"
	applicantupdate "github.com/magabrotheeeer/fastvisa/internal/http/handlers/applicant/update"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/password"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/resend"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/me/profile"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/me/refresh"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/quickstart/countries"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/quickstart/country"
	quickstartstart "github.com/magabrotheeeer/fastvisa/internal/http/handlers/quickstart/start"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/quickstart/status"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/system/appinfo"
	"github.com/magabrotheeeer/fastvisa/internal/http/handlers/system/health"
	userlist "github.com/magabrotheeeer/fastvisa/internal/http/handlers/user/list"
	userremove "github.com/magabrotheeeer/fastvisa/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/fastvisa/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/jwt"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/quickstart"
	applicantservice "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	userservice "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Deps — собранные зависимости маршрутов.
type Deps struct {
	Logger     *slog.Logger
	Env        string
	Production bool

	Cache    *cache.Cache
	Sessions *session.Store
	Maker    jwt.Maker
	Cookie   middlewarectx.CookieConfig
	Limiter  *rate.Limiter
	Gatherer prometheus.Gatherer

	Validator  *validation.Validator
	Auth       *auth.Service
	Gate       *permissions.Gate
	Applicants *applicantservice.Service
	Users      *userservice.Service
	QuickStart *quickstart.Flow
	Locator    *geo.Locator
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.NotFound(notFound)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(logger, d.Sessions, d.Maker, d.Cookie))

		// Открытые конечные точки
		r.Get("/app", appinfo.New(d.Env, d.Production).ServeHTTP)
		r.Get("/me", profile.New(logger).ServeHTTP)
		r.Post("/logout", logout.New(logger, d.Auth).ServeHTTP)
		r.Post("/verify-email", verify.New(logger, d.Users).ServeHTTP)
		r.Get("/quickstart/countries", countries.New(logger).ServeHTTP)
		r.Get("/quickstart/country", country.New(logger, d.Locator).ServeHTTP)
		r.Get("/quickstart/{id}", status.New(logger, d.QuickStart).ServeHTTP)

		// Открытые конечные точки с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, d.Limiter))
			r.Post("/login", login.New(logger, d.Auth, d.Validator).ServeHTTP)
			r.Post("/register", register.New(logger, d.Users).ServeHTTP)
			r.Post("/verify-email/resend", resend.New(logger, d.Users).ServeHTTP)
			r.Post("/quickstart", quickstartstart.New(logger, d.QuickStart).ServeHTTP)
		})

		// Группа с обязательной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAuth(logger))

			r.Post("/me/permissions/refresh", refresh.New(logger, d.Gate).ServeHTTP)
			r.Put("/password", password.New(logger, d.Users).ServeHTTP)

			r.Get("/applicants", applicantlist.New(logger, d.Applicants).ServeHTTP)
			r.Post("/applicants", applicantcreate.New(logger, d.Applicants).ServeHTTP)
			r.Post("/applicants/authenticate", authenticate.New(logger, d.Applicants).ServeHTTP)
			r.Get("/applicants/{id}", read.New(logger, d.Applicants, d.Sessions).ServeHTTP)
			r.Put("/applicants/{id}", applicantupdate.New(logger, d.Applicants).ServeHTTP)
			r.Delete("/applicants/{id}", applicantremove.New(logger, d.Applicants).ServeHTTP)
			r.Get("/applicants/{id}/password", applicantpassword.New(logger, d.Applicants).ServeHTTP)
			r.Post("/applicants/{id}/start", searchstart.New(logger, d.Applicants).ServeHTTP)
			r.Post("/applicants/{id}/stop", stop.New(logger, d.Applicants).ServeHTTP)
			r.With(middlewarectx.RequirePermission(logger, permissions.ClearStatus)).
				Post("/applicants/{id}/clear", clearstatus.New(logger, d.Applicants).ServeHTTP)

			// Администрирование пользователей
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePermission(logger, permissions.ManageUsers))
				r.Get("/users", userlist.New(logger, d.Users).ServeHTTP)
				r.Put("/users/{id}", userupdate.New(logger, d.Users).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, d.Users).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, d.Cache).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// notFound отвечает JSON для неизвестных маршрутов.
func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	render.JSON(w, r, response.Error("not found"))
}
