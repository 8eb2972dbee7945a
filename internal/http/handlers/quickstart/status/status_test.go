package status

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fastvisa/internal/quickstart"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Status(ctx context.Context, flowID string) (*quickstart.Progress, bool, error) {
	args := m.Called(ctx, flowID)
	p, _ := args.Get(0).(*quickstart.Progress)
	return p, args.Bool(1), args.Error(2)
}

func TestStatusHandler(t *testing.T) {
	tests := []struct {
		name       string
		progress   *quickstart.Progress
		found      bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "rewound with error",
			progress:   &quickstart.Progress{Stage: quickstart.StageForm, Step: quickstart.StepCreateUser, Error: "could not create your account"},
			found:      true,
			wantStatus: http.StatusOK,
			wantBody:   `"error":"could not create your account"`,
		},
		{name: "unknown", wantStatus: http.StatusNotFound, wantBody: "quick start not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Status", mock.Anything, "flow-1").Return(tt.progress, tt.found, nil).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/quickstart/flow-1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "flow-1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
