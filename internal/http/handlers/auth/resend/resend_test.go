package resend

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

func (m *ServiceMock) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func TestResendHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		email      string
		err        error
		callSvc    bool
		wantStatus int
		wantBody   string
	}{
		{name: "sent", body: `{"email":"a@example.com"}`, email: "a@example.com", callSvc: true, wantStatus: http.StatusOK, wantBody: `"status":"OK"`},
		{
			name: "bad email", body: `{"email":"nope"}`, email: "nope", callSvc: true,
			err:        validation.FieldErrors{"email": "field email must be a valid email"},
			wantStatus: http.StatusUnprocessableEntity, wantBody: `"email"`,
		},
		{
			name: "api down", body: `{"email":"a@example.com"}`, email: "a@example.com", callSvc: true,
			err:        fmt.Errorf("op: %w", apiclient.ErrUnavailable),
			wantStatus: http.StatusBadGateway, wantBody: "could not send verification email",
		},
		{name: "invalid json", body: `[`, wantStatus: http.StatusBadRequest, wantBody: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callSvc {
				svc.On("ResendVerification", mock.Anything, tt.email).Return(tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/verify-email/resend", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
