// Package list реализует HTTP-обработчик списка заявителей.
//
// Пользователи с правом view_all_applicants видят всех заявителей и могут
// искать по ?query=. Остальные видят только своих.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

// Handler обрабатывает запросы на получение списка заявителей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заявителей
}

// Service описывает интерфейс бизнес-логики получения списка заявителей.
type Service interface {
	List(ctx context.Context, sess *session.Session, query string) ([]models.Applicant, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заявителей
// @Tags Applicants
// @Produce  json
// @Param query query string false "Поиск (только с правом view_all_applicants)"
// @Success 200 {object} response.Response{data=[]models.Applicant}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Внешний API недоступен"
// @Router /applicants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.applicant.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context(), middlewarectx.FromContext(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		log.Error("failed to list applicants", sl.Err(err))
		w.WriteHeader(response.APIStatus(err))
		render.JSON(w, r, response.Error("could not load applicants"))
		return
	}

	log.Info("success to list applicants", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
