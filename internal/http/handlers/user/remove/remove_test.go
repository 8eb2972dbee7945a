package remove

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, sess *session.Session, id int) error {
	return m.Called(ctx, sess, id).Error(0)
}

func TestRemoveUserHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantBody: `"deleted_id":9`},
		{name: "self", err: fmt.Errorf("op: %w", services.ErrSelfDelete), wantStatus: http.StatusBadRequest, wantBody: "cannot delete own account"},
		{name: "forbidden", err: fmt.Errorf("op: %w", services.ErrForbidden), wantStatus: http.StatusForbidden, wantBody: "access denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, mock.Anything, 9).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/9", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "9")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithSession(ctx, &session.Session{ID: "s", UserID: 1}))
			rec := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
