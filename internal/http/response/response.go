// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
// Поле Fields — сообщения валидации по именам полей формы.
// Поле Redirect — куда UI должен перейти (например, на экран входа).
type Response struct {
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Data     any               `json:"data,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"

	// LoginPath — экран входа, на который UI уходит без сессии.
	LoginPath = "/login"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// Unauthorized возвращает ошибку с подсказкой перейти на экран входа.
func Unauthorized(msg string) Response {
	return Response{
		Status:   StatusError,
		Error:    msg,
		Redirect: LoginPath,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Сообщения по полям лежат в Fields, общий текст объединён через запятую.
func ValidationError(errs validation.FieldErrors) Response {
	return Response{
		Status: StatusError,
		Error:  errs.Error(),
		Fields: errs,
	}
}

// APIStatus сопоставляет ошибку внешнего API с HTTP-статусом ответа.
func APIStatus(err error) int {
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
