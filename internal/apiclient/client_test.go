package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fastvisa/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	metrics := NewMetrics(prometheus.NewRegistry())
	c, err := New(srv.URL, newNoopLogger(), WithHTTPClient(srv.Client()), WithMetrics(metrics))
	require.NoError(t, err)
	return c, metrics
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		apiURL     string
		production bool
		want       string
	}{
		{name: "test environment", apiURL: "https://api.example", production: false, want: "https://api.example/TEST"},
		{name: "production", apiURL: "https://api.example", production: true, want: "https://api.example"},
		{name: "trailing slash", apiURL: "https://api.example/", production: false, want: "https://api.example/TEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseURL(tt.apiURL, tt.production))
		})
	}
}

func TestNew_EmptyBaseURL(t *testing.T) {
	_, err := New("", newNoopLogger())
	assert.Error(t, err)
}

func TestClient_JSONHeadersAndDecode(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(models.User{ID: 7, Username: "a@b.c", RoleID: 2})
	})

	user, err := c.GetUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "a@b.c", user.Username)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("apiclient.GetUser", "200")))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{name: "not found", status: http.StatusNotFound, target: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, target: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, target: ErrUnauthorized},
		{name: "conflict", status: http.StatusConflict, target: ErrConflict},
		{name: "server error", status: http.StatusInternalServerError, target: ErrServer},
		{name: "created is not ok", status: http.StatusCreated, target: ErrUnexpected},
		{name: "bad request", status: http.StatusBadRequest, target: ErrUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			})

			_, err := c.GetApplicant(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, newNoopLogger())
	require.NoError(t, err)

	err = c.StartSearch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_CreateApplicant(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/applicants", r.URL.Path)
		var got models.Applicant
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, 5, got.UserID)
		_, _ = w.Write([]byte(`{"id": 42}`))
	})

	id, err := c.CreateApplicant(context.Background(), models.Applicant{UserID: 5, Name: "John"})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestClient_CreateApplicant_EmptyID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.CreateApplicant(context.Background(), models.Applicant{})
	assert.ErrorIs(t, err, ErrUnexpected)
}

func TestClient_FindUserByUsername(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/search", r.URL.Path)
		assert.Equal(t, "new+user@example.com", r.URL.Query().Get("username"))
		_ = json.NewEncoder(w).Encode([]models.User{
			{ID: 1, Username: "other@example.com"},
			{ID: 9, Username: "new+user@example.com"},
		})
	})

	user, err := c.FindUserByUsername(context.Background(), "new+user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 9, user.ID)

	_, err = c.FindUserByUsername(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_EmptyBodyOnSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/containers/stop", r.URL.Path)
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body["applicant_id"])
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, c.StopSearch(context.Background(), 3))
}

func TestClient_AuthenticateAIS(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds models.AISCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ais@example.com", creds.Username)
		_, _ = w.Write([]byte(`{"schedule_id":"12345","applicant_name":"Jane Doe"}`))
	})

	profile, err := c.AuthenticateAIS(context.Background(), models.AISCredentials{
		Username: "ais@example.com", Password: "pw", CountryCode: "es-mx",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", profile.ScheduleID)
	assert.Equal(t, "Jane Doe", profile.ApplicantName)
}

func TestClient_UserPermissions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/4/permissions", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"manage_applicants"}]`))
	})

	perms, err := c.UserPermissions(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{{ID: 1, Name: "manage_applicants"}}, perms)
}

func TestClient_UnknownSearchStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(c *Client) error
	}{
		{
			name: "get",
			body: `{"id":1,"search_status":"Paused"}`,
			call: func(c *Client) error { _, err := c.GetApplicant(context.Background(), 1); return err },
		},
		{
			name: "list",
			body: `[{"id":1,"search_status":"Running"},{"id":2,"search_status":"Paused"}]`,
			call: func(c *Client) error { _, err := c.ListApplicants(context.Background()); return err },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			err := tt.call(c)
			assert.ErrorIs(t, err, ErrUnexpected)
			assert.Contains(t, err.Error(), "Paused")
		})
	}
}

func TestClient_KnownSearchStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"search_status":"Running"},{"id":2}]`))
	})
	list, err := c.ListUserApplicants(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, models.SearchRunning, list[0].SearchStatus)
}
