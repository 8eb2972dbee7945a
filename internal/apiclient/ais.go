package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/fastvisa/internal/models"
)

// AuthenticateAIS проверяет учётные данные во внешней системе записи и
// возвращает имя заявителя и ID расписания.
func (c *Client) AuthenticateAIS(ctx context.Context, creds models.AISCredentials) (*models.AISProfile, error) {
	const op = "apiclient.AuthenticateAIS"
	var out models.AISProfile
	if err := c.do(ctx, op, http.MethodPost, "/ais/authenticate", creds, &out); err != nil {
		return nil, err
	}
	if out.ScheduleID == "" {
		return nil, fmt.Errorf("%s: %w: empty schedule id", op, ErrUnexpected)
	}
	return &out, nil
}

type containerRequest struct {
	ApplicantID int `json:"applicant_id"`
}

// StartSearch запускает контейнер поиска для заявителя.
func (c *Client) StartSearch(ctx context.Context, applicantID int) error {
	return c.do(ctx, "apiclient.StartSearch", http.MethodPost, "/containers/start",
		containerRequest{ApplicantID: applicantID}, nil)
}

// StopSearch останавливает контейнер поиска для заявителя.
func (c *Client) StopSearch(ctx context.Context, applicantID int) error {
	return c.do(ctx, "apiclient.StopSearch", http.MethodPost, "/containers/stop",
		containerRequest{ApplicantID: applicantID}, nil)
}

// NotifyFailure отправляет администратору уведомление о сбое.
func (c *Client) NotifyFailure(ctx context.Context, notice models.FailureNotice) error {
	return c.do(ctx, "apiclient.NotifyFailure", http.MethodPost, "/admin/notify-failure", notice, nil)
}
