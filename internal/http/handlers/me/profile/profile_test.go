package profile

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fastvisa/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

func TestProfileHandler(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		sess     *session.Session
		wantAuth bool
		wantView bool
	}{
		{name: "anonymous", sess: session.New()},
		{
			name: "logged in",
			sess: &session.Session{
				ID: "s", UserID: 4, Username: "u@example.com", ConcurrentApplicants: 2,
				Permissions: []models.Permission{{ID: 2, Name: "view_all_applicants"}},
			},
			wantAuth: true,
			wantView: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), tt.sess))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var got struct {
				Data View `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantAuth, got.Data.Authenticated)
			assert.Equal(t, tt.wantView, got.Data.Permissions.ViewAllApplicants)
			assert.False(t, got.Data.Permissions.ManageApplicants)
		})
	}
}
