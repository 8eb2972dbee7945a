package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Классы ошибок внешнего API. Сравниваются через errors.Is с *Error.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("api unavailable")
	ErrUnexpected   = errors.New("unexpected response")
)

// Error описывает неуспешный ответ внешнего API.
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is сопоставляет ответ с классом ошибки по коду статуса.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	case ErrUnexpected:
		return e.StatusCode < http.StatusInternalServerError &&
			e.StatusCode != http.StatusNotFound &&
			e.StatusCode != http.StatusUnauthorized &&
			e.StatusCode != http.StatusForbidden &&
			e.StatusCode != http.StatusConflict
	}
	return false
}

// StatusCode возвращает HTTP-статус ответа API, если ошибка его содержит, иначе 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
