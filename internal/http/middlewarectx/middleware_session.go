// Package middlewarectx содержит HTTP middleware для серверной сессии.
//
// SessionMiddleware читает подписанную cookie, загружает сессию из хранилища
// один раз на запрос и кладёт её в контекст. RequireAuth и RequirePermission
// закрывают маршруты для анонимных пользователей и пользователей без права.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/jwt"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey — ключ сессии в контексте.
const SessionKey Key = "session"

// SessionLoader загружает сессию по идентификатору.
type SessionLoader interface {
	Load(ctx context.Context, id string) (*session.Session, bool, error)
}

// CookieConfig описывает cookie сессии.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// FromContext возвращает сессию запроса. Без SessionMiddleware возвращает
// пустую анонимную сессию, а не nil.
func FromContext(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionKey).(*session.Session); ok && sess != nil {
		return sess
	}
	return &session.Session{}
}

// SessionMiddleware возвращает HTTP middleware, который восстанавливает сессию из cookie.
//
// Если cookie нет или подпись неверна, создаётся новая анонимная сессия.
// Cookie перевыпускается на каждом запросе перед первой записью ответа, поэтому
// она несёт идентификатор, который обработчик мог сменить при входе.
func SessionMiddleware(log *slog.Logger, store SessionLoader, maker jwt.Maker, cookie CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			sess, err := restore(r, store, maker, cookie.Name)
			if err != nil {
				log.Error("failed to load session", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			cw := &cookieWriter{ResponseWriter: w}
			cw.issue = func() {
				token, err := maker.GenerateToken(sess.ID)
				if err != nil {
					log.Error("failed to sign session cookie", sl.Err(err))
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cookie.Name,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cookie.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(cw, r.WithContext(WithSession(r.Context(), sess)))
			cw.ensure()
		})
	}
}

// cookieWriter выставляет cookie сессии один раз, до отправки заголовков.
type cookieWriter struct {
	http.ResponseWriter
	issue  func()
	issued bool
}

func (cw *cookieWriter) ensure() {
	if cw.issued {
		return
	}
	cw.issued = true
	cw.issue()
}

func (cw *cookieWriter) WriteHeader(code int) {
	cw.ensure()
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cookieWriter) Write(b []byte) (int, error) {
	cw.ensure()
	return cw.ResponseWriter.Write(b)
}

func restore(r *http.Request, store SessionLoader, maker jwt.Maker, name string) (*session.Session, error) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return session.New(), nil
	}
	claims, err := maker.ParseToken(c.Value)
	if err != nil {
		return session.New(), nil
	}
	sess, _, err := store.Load(r.Context(), claims.SessionID())
	if err != nil {
		return nil, err
	}
	return sess, nil
}
