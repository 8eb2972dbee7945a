package fastvisa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/auth"
	"github.com/magabrotheeeer/fastvisa/internal/cache"
	"github.com/magabrotheeeer/fastvisa/internal/config"
	"github.com/magabrotheeeer/fastvisa/internal/geo"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/lib/jwt"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/permissions"
	"github.com/magabrotheeeer/fastvisa/internal/quickstart"
	applicantservice "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	userservice "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер FastVisa со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

// New собирает зависимости и маршруты приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := apiclient.New(
		apiclient.BaseURL(cfg.APIURL, cfg.IsProduction()),
		logger,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		apiclient.WithMetrics(apiclient.NewMetrics(reg)),
	)
	if err != nil {
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store := session.NewStore(cacheRedis, cfg.Session.TTL)
	maker := jwt.NewJWTMaker(cfg.Session.SecretKey, cfg.Session.TTL)
	validate := validation.New()

	gate := permissions.NewGate(client, store, logger)
	authService := auth.NewService(client, store, gate, logger)
	applicantService := applicantservice.NewService(client, validate, logger)
	userService := userservice.NewService(client, validate, userservice.Defaults{
		RoleName:    cfg.QuickStart.BasicRoleName,
		RoleID:      cfg.QuickStart.BasicRoleID,
		TrialPeriod: cfg.QuickStart.TrialPeriod,
	}, logger)

	tracker := quickstart.NewRedisTracker(cacheRedis, cfg.QuickStart.TrackerTTL)
	flow := quickstart.NewFlow(client, userService, authService, validate, tracker, quickstart.Options{
		SearchWindow: cfg.QuickStart.SearchWindow,
		Metrics:      quickstart.NewMetrics(reg),
	}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:     logger,
		Env:        cfg.Env,
		Production: cfg.IsProduction(),
		Cache:      cacheRedis,
		Sessions:   store,
		Maker:      maker,
		Cookie: middlewarectx.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.SecureCookie,
		},
		Limiter:    middlewarectx.NewLimiter(cfg.HTTPServer.RateLimit, cfg.HTTPServer.RateBurst),
		Gatherer:   reg,
		Validator:  validate,
		Auth:       authService,
		Gate:       gate,
		Applicants: applicantService,
		Users:      userService,
		QuickStart: flow,
		Locator:    geo.NewLocator(cfg.Geo.URL, cfg.Geo.Timeout),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeCache()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeCache()
		return err
	}
}

func (a *App) closeCache() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
}
