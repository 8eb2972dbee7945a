package list

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, sess *session.Session, query string) ([]models.Applicant, error) {
	args := m.Called(ctx, sess, query)
	out, _ := args.Get(0).([]models.Applicant)
	return out, args.Error(1)
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		query      string
		out        []models.Applicant
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "own applicants",
			target:     "/api/v1/applicants",
			out:        []models.Applicant{{ID: 1, Name: "Jane"}},
			wantStatus: http.StatusOK,
			wantBody:   `"name":"Jane"`,
		},
		{
			name:       "query is passed through",
			target:     "/api/v1/applicants?query=doe",
			query:      "doe",
			out:        []models.Applicant{{ID: 2, Name: "John Doe"}},
			wantStatus: http.StatusOK,
			wantBody:   `"name":"John Doe"`,
		},
		{
			name:       "unauthorized upstream",
			target:     "/api/v1/applicants",
			err:        fmt.Errorf("op: %w", &apiclient.Error{StatusCode: http.StatusUnauthorized}),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "could not load applicants",
		},
		{
			name:       "api down",
			target:     "/api/v1/applicants",
			err:        fmt.Errorf("op: %w", apiclient.ErrUnavailable),
			wantStatus: http.StatusBadGateway,
			wantBody:   "could not load applicants",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &session.Session{ID: "s", UserID: 1}
			svc := new(ServiceMock)
			svc.On("List", mock.Anything, sess, tt.query).Return(tt.out, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), sess))
			rec := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
