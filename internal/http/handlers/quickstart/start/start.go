// Package start реализует HTTP-обработчик запуска быстрого старта.
//
// Handler принимает минимальную форму, выполняет все шаги сценария и
// возвращает адрес экрана заявителя. При сбое обязательного шага отвечает
// сообщением этого шага и идентификатором сценария для опроса прогресса.
package start

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
	"github.com/magabrotheeeer/fastvisa/internal/quickstart"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Handler запускает сценарий.
type Handler struct {
	log  *slog.Logger
	flow Flow
}

// Flow описывает сценарий быстрого старта.
type Flow interface {
	Run(ctx context.Context, sess *session.Session, form models.QuickStartForm) (*quickstart.Result, error)
}

// New создает новый Handler.
func New(log *slog.Logger, flow Flow) *Handler {
	return &Handler{log: log, flow: flow}
}

// ServeHTTP godoc
// @Summary Быстрый старт
// @Description Создаёт учётную запись базового уровня и первого заявителя за один проход.
// @Tags QuickStart
// @Accept  json
// @Produce  json
// @Param request body models.QuickStartForm true "Страна и учётные данные AIS"
// @Success 200 {object} response.Response{data=quickstart.Result}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Сбой обязательного шага"
// @Router /quickstart [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quickstart.start"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.QuickStartForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.flow.Run(r.Context(), middlewarectx.FromContext(r.Context()), req)
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			resp := response.ValidationError(fieldErrs)
			resp.Data = res
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, resp)
			return
		}

		log.Error("quick start failed", sl.Err(err))
		msg := "quick start failed, please try again"
		var stepErr *quickstart.StepError
		if errors.As(err, &stepErr) {
			msg = stepErr.Message
		}
		resp := response.Error(msg)
		resp.Data = res
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, resp)
		return
	}

	log.Info("quick start completed", slog.String("flow_id", res.FlowID), slog.Int("applicant_id", res.ApplicantID))
	render.JSON(w, r, response.Response{
		Status:   response.StatusOK,
		Data:     res,
		Redirect: res.Redirect,
	})
}
