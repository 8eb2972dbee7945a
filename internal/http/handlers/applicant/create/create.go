// Package create реализует HTTP-обработчик создания заявителя.
//
// Handler принимает JSON-форму заявителя, передаёт её сервису, который
// проверяет поля и права, и возвращает ID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	services "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Handler управляет HTTP-запросами на создание заявителей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заявителей
}

// Service описывает интерфейс бизнес-логики создания заявителя.
type Service interface {
	Create(ctx context.Context, sess *session.Session, form models.ApplicantForm) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать заявителя
// @Description Создаёт заявителя для текущего пользователя или, с правом manage_applicants, для указанного.
// @Tags Applicants
// @Accept  json
// @Produce  json
// @Param request body models.ApplicantForm true "Данные заявителя"
// @Success 201 {object} response.Response "Заявитель создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /applicants [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ApplicantForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id, err := h.service.Create(r.Context(), middlewarectx.FromContext(r.Context()), req)
	if err != nil {
		var fieldErrs validation.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			log.Info("validation failed", slog.String("fields", fieldErrs.Error()))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(fieldErrs))
		case errors.Is(err, services.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to create applicant", sl.Err(err))
			w.WriteHeader(response.APIStatus(err))
			render.JSON(w, r, response.Error("could not create applicant"))
		}
		return
	}

	log.Info("success to create applicant", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
