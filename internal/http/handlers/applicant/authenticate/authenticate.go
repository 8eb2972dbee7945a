// Package authenticate проверяет учётные данные AIS и возвращает данные для
// автозаполнения формы заявителя.
package authenticate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Handler проверяет учётные данные AIS.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает аутентификацию в AIS.
type Service interface {
	Authenticate(ctx context.Context, creds models.AISCredentials) (*models.AISProfile, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Аутентификация в AIS
// @Tags Applicants
// @Accept  json
// @Produce  json
// @Param request body models.AISCredentials true "Учётные данные AIS"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "AIS отвергла учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /applicants/authenticate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.authenticate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.AISCredentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	profile, err := h.service.Authenticate(r.Context(), req)
	if err != nil {
		var fieldErrs validation.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(fieldErrs))
		case errors.Is(err, apiclient.ErrUnauthorized):
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("the appointment system rejected these credentials"))
		default:
			log.Error("AIS authentication failed", sl.Err(err))
			w.WriteHeader(response.APIStatus(err))
			render.JSON(w, r, response.Error("could not authenticate with the appointment system"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authenticated":  true,
		"schedule_id":    profile.ScheduleID,
		"applicant_name": profile.ApplicantName,
	}))
}
