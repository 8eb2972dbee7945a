// Package resend реализует HTTP-обработчик повторной отправки письма подтверждения.
package resend

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

// Request — адрес, на который нужно отправить письмо.
type Request struct {
	Email string `json:"email"`
}

// Handler обрабатывает повторную отправку письма.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс повторной отправки.
type Service interface {
	ResendVerification(ctx context.Context, email string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Повторная отправка письма подтверждения
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Адрес почты"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Некорректный адрес"
// @Router /verify-email/resend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend"

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

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(fieldErrs))
			return
		}
		log.Error("failed to resend verification", sl.Err(err))
		w.WriteHeader(response.APIStatus(err))
		render.JSON(w, r, response.Error("could not send verification email"))
		return
	}

	render.JSON(w, r, response.OK())
}
