package create

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	services "github.com/magabrotheeeer/fastvisa/internal/services/applicant"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, sess *session.Session, form models.ApplicantForm) (int, error) {
	args := m.Called(ctx, sess, form)
	return args.Int(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	form := models.ApplicantForm{
		Name: "John", AISUsername: "john@example.com", AISPassword: "pw", AISScheduleID: "1",
		CountryCode: "es-mx", TargetStartMode: "days", TargetEndDate: "2027-01-01",
		TargetCityCodes: []string{"65"},
	}

	tests := []struct {
		name       string
		id         int
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "created", id: 42, wantStatus: http.StatusCreated, wantBody: `"id":42`},
		{
			name:       "validation",
			err:        validation.FieldErrors{"name": "field name is a required field"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"name":"field name is a required field"`,
		},
		{name: "forbidden", err: fmt.Errorf("op: %w", services.ErrForbidden), wantStatus: http.StatusForbidden, wantBody: "access denied"},
		{
			name:       "api error",
			err:        fmt.Errorf("op: %w", &apiclient.Error{StatusCode: http.StatusInternalServerError}),
			wantStatus: http.StatusBadGateway,
			wantBody:   "could not create applicant",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Create", mock.Anything, mock.Anything, form).Return(tt.id, tt.err).Once()

			raw, err := json.Marshal(form)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/applicants", bytes.NewReader(raw))
			req = req.WithContext(middlewarectx.WithSession(req.Context(), &session.Session{ID: "s", UserID: 1}))
			rec := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
