package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/fastvisa/internal/models"
)

// ListApplicants возвращает всех заявителей.
func (c *Client) ListApplicants(ctx context.Context) ([]models.Applicant, error) {
	const op = "apiclient.ListApplicants"
	var out []models.Applicant
	if err := c.do(ctx, op, http.MethodGet, "/applicants", nil, &out); err != nil {
		return nil, err
	}
	return out, checkStatuses(op, out)
}

// ListUserApplicants возвращает заявителей пользователя.
func (c *Client) ListUserApplicants(ctx context.Context, userID int) ([]models.Applicant, error) {
	const op = "apiclient.ListUserApplicants"
	var out []models.Applicant
	path := fmt.Sprintf("/applicants?user_id=%d", userID)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, checkStatuses(op, out)
}

// SearchApplicants ищет заявителей по строке запроса.
func (c *Client) SearchApplicants(ctx context.Context, query string) ([]models.Applicant, error) {
	const op = "apiclient.SearchApplicants"
	var out []models.Applicant
	path := "/applicants/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, checkStatuses(op, out)
}

// GetApplicant возвращает заявителя по ID.
func (c *Client) GetApplicant(ctx context.Context, id int) (*models.Applicant, error) {
	const op = "apiclient.GetApplicant"
	var out models.Applicant
	path := fmt.Sprintf("/applicants/%d", id)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := checkStatuses(op, []models.Applicant{out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// checkStatuses отклоняет ответ с неизвестным статусом поиска.
func checkStatuses(op string, list []models.Applicant) error {
	for _, a := range list {
		if a.SearchStatus != "" && !a.SearchStatus.Valid() {
			return fmt.Errorf("%s: %w: applicant %d has search_status %q", op, ErrUnexpected, a.ID, a.SearchStatus)
		}
	}
	return nil
}

type createdResponse struct {
	ID int `json:"id"`
}

// CreateApplicant создаёт заявителя и возвращает его ID.
func (c *Client) CreateApplicant(ctx context.Context, a models.Applicant) (int, error) {
	const op = "apiclient.CreateApplicant"
	var out createdResponse
	if err := c.do(ctx, op, http.MethodPost, "/applicants", a, &out); err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("%s: %w: empty id", op, ErrUnexpected)
	}
	return out.ID, nil
}

// UpdateApplicant обновляет заявителя.
func (c *Client) UpdateApplicant(ctx context.Context, id int, a models.Applicant) error {
	path := fmt.Sprintf("/applicants/%d", id)
	return c.do(ctx, "apiclient.UpdateApplicant", http.MethodPut, path, a, nil)
}

// DeleteApplicant удаляет заявителя.
func (c *Client) DeleteApplicant(ctx context.Context, id int) error {
	path := fmt.Sprintf("/applicants/%d", id)
	return c.do(ctx, "apiclient.DeleteApplicant", http.MethodDelete, path, nil, nil)
}

// ApplicantPassword возвращает сохранённый пароль AIS заявителя.
func (c *Client) ApplicantPassword(ctx context.Context, id int) (string, error) {
	var out struct {
		Password string `json:"password"`
	}
	path := fmt.Sprintf("/applicants/%d/password", id)
	if err := c.do(ctx, "apiclient.ApplicantPassword", http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Password, nil
}
