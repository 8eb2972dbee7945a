// Package verify реализует HTTP-обработчик подтверждения адреса почты.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Request — токен из письма подтверждения.
type Request struct {
	Token string `json:"token"`
}

// Handler обрабатывает подтверждение почты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтверждение почты
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен подтверждения"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Токен не найден"
// @Failure 422 {object} response.ErrorResponse "Пустой токен"
// @Router /verify-email [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.Token); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(fieldErrs))
			return
		}
		log.Error("failed to verify email", sl.Err(err))
		w.WriteHeader(response.APIStatus(err))
		render.JSON(w, r, response.Error("could not verify email"))
		return
	}

	log.Info("email verified")
	render.JSON(w, r, response.Response{Status: response.StatusOK, Redirect: response.LoginPath})
}
