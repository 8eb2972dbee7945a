// Package read реализует HTTP-обработчик получения заявителя по ID.
//
// Успешное чтение запоминает заявителя в сессии как последнего просмотренного.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	services "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler обрабатывает запросы на получение заявителя по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заявителей
	store   Store        // Хранилище сессий
}

// Service описывает интерфейс бизнес-логики чтения заявителя.
type Service interface {
	Get(ctx context.Context, sess *session.Session, id int) (*models.Applicant, error)
}

// Store сохраняет сессию.
type Store interface {
	Save(ctx context.Context, sess *session.Session) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, store Store) *Handler {
	return &Handler{
		log:     log,
		service: service,
		store:   store,
	}
}

// ServeHTTP godoc
// @Summary Получить заявителя
// @Tags Applicants
// @Produce  json
// @Param id path int true "ID заявителя"
// @Success 200 {object} response.Response{data=models.Applicant}
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 404 {object} response.ErrorResponse "Заявитель не найден"
// @Router /applicants/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	sess := middlewarectx.FromContext(r.Context())
	res, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		status, msg := response.APIStatus(err), "could not read applicant"
		if errors.Is(err, services.ErrForbidden) {
			status, msg = http.StatusForbidden, "access denied"
		}
		log.Error("failed to read applicant", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	sess.ApplicantUserID = res.ID
	if err := h.store.Save(r.Context(), sess); err != nil {
		log.Warn("failed to remember last viewed applicant", sl.Err(err))
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
