package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestVerifyHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		token      string
		err        error
		callSvc    bool
		wantStatus int
		wantBody   string
	}{
		{name: "verified", body: `{"token":"tok"}`, token: "tok", callSvc: true, wantStatus: http.StatusOK, wantBody: `"redirect":"/login"`},
		{
			name: "empty token", body: `{"token":""}`, callSvc: true,
			err:        validation.FieldErrors{"token": "field token is a required field"},
			wantStatus: http.StatusUnprocessableEntity, wantBody: `"token"`,
		},
		{
			name: "expired token", body: `{"token":"old"}`, token: "old", callSvc: true,
			err:        fmt.Errorf("op: %w", &apiclient.Error{StatusCode: http.StatusNotFound}),
			wantStatus: http.StatusNotFound, wantBody: "could not verify email",
		},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest, wantBody: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callSvc {
				svc.On("VerifyEmail", mock.Anything, tt.token).Return(tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/verify-email", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
