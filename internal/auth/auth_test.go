package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fastvisa/internal/apiclient"
	"github.com/magabrotheeeer/fastvisa/internal/auth"
	"github.com/magabrotheeeer/fastvisa/internal/models"
	"github.com/magabrotheeeer/fastvisa/internal/session"
)

type APIMock struct {
	mock.Mock
}

func (m *APIMock) Login(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *APIMock) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Save(ctx context.Context, sess *session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *StoreMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type RefresherMock struct {
	mock.Mock
}

func (m *RefresherMock) Refresh(ctx context.Context, sess *session.Session) bool {
	return m.Called(ctx, sess).Bool(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Login(t *testing.T) {
	user := &models.User{ID: 8, Username: "u@example.com", Name: "U", CountryCode: "es-co", ConcurrentApplicants: 1}

	tests := []struct {
		name      string
		loginErr  error
		findErr   error
		refreshOK bool
		wantErr   error
		wantAuth  bool
	}{
		{name: "success", refreshOK: true, wantAuth: true},
		{name: "success without permissions", refreshOK: false, wantAuth: true},
		{name: "rejected", loginErr: &apiclient.Error{StatusCode: http.StatusUnauthorized}, wantErr: auth.ErrInvalidCredentials},
		{name: "server down", loginErr: &apiclient.Error{StatusCode: http.StatusBadGateway}, wantErr: apiclient.ErrServer},
		{name: "user lookup fails", findErr: &apiclient.Error{StatusCode: http.StatusNotFound}, wantErr: apiclient.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(APIMock)
			store := new(StoreMock)
			refresher := new(RefresherMock)

			api.On("Login", mock.Anything, "u@example.com", "pw").Return(tt.loginErr).Once()
			if tt.loginErr == nil {
				api.On("FindUserByUsername", mock.Anything, "u@example.com").Return(user, tt.findErr).Once()
			}
			sess := session.New()
			prevID := sess.ID
			if tt.wantErr == nil {
				store.On("Delete", mock.Anything, prevID).Return(nil).Once()
				store.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
				refresher.On("Refresh", mock.Anything, mock.Anything).Return(tt.refreshOK).Once()
			}

			got, err := auth.NewService(api, store, refresher, newNoopLogger()).Login(context.Background(), sess, "u@example.com", "pw")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, sess.IsAuthenticated())
				assert.Equal(t, prevID, sess.ID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user, got)
				assert.Equal(t, 8, sess.UserID)
				assert.Equal(t, "u@example.com", sess.Username)
				assert.Equal(t, "es-co", sess.CountryCode)
				assert.Equal(t, 1, sess.ConcurrentApplicants)
				assert.NotEqual(t, prevID, sess.ID)
			}
			assert.Equal(t, tt.wantAuth, sess.IsAuthenticated())
			api.AssertExpectations(t)
			store.AssertExpectations(t)
			refresher.AssertExpectations(t)
		})
	}
}

func TestService_Logout(t *testing.T) {
	store := new(StoreMock)
	sess := session.New()
	sess.SetUser(models.User{ID: 3, Username: "x@example.com"})
	store.On("Delete", mock.Anything, sess.ID).Return(nil).Once()

	err := auth.NewService(new(APIMock), store, new(RefresherMock), newNoopLogger()).Logout(context.Background(), sess)
	require.NoError(t, err)

	assert.Zero(t, sess.UserID)
	assert.Empty(t, sess.Username)
	assert.False(t, sess.IsAuthenticated())
	store.AssertExpectations(t)
}

func TestService_LogoutStoreError(t *testing.T) {
	store := new(StoreMock)
	sess := session.New()
	sess.UserID = 3
	store.On("Delete", mock.Anything, sess.ID).Return(errors.New("redis down")).Once()

	err := auth.NewService(new(APIMock), store, new(RefresherMock), newNoopLogger()).Logout(context.Background(), sess)
	assert.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
}

func TestService_Establish(t *testing.T) {
	store := new(StoreMock)
	refresher := new(RefresherMock)
	sess := session.New()
	prevID := sess.ID
	store.On("Delete", mock.Anything, prevID).Return(nil).Once()
	store.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	refresher.On("Refresh", mock.Anything, mock.Anything).Return(false).Once()

	err := auth.NewService(new(APIMock), store, refresher, newNoopLogger()).
		Establish(context.Background(), sess, models.User{ID: 12, Username: "n@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 12, sess.UserID)
	assert.NotEqual(t, prevID, sess.ID)
	store.AssertExpectations(t)
}

func TestService_LoginRotatesPlantedSessionID(t *testing.T) {
	api := new(APIMock)
	store := new(StoreMock)
	refresher := new(RefresherMock)
	user := &models.User{ID: 8, Username: "u@example.com"}

	api.On("Login", mock.Anything, "u@example.com", "pw").Return(nil).Once()
	api.On("FindUserByUsername", mock.Anything, "u@example.com").Return(user, nil).Once()
	store.On("Delete", mock.Anything, "planted-sid").Return(errors.New("redis down")).Once()
	store.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Session) bool {
		return s.ID != "planted-sid" && s.UserID == 8
	})).Return(nil).Once()
	refresher.On("Refresh", mock.Anything, mock.Anything).Return(true).Once()

	sess := &session.Session{ID: "planted-sid"}
	_, err := auth.NewService(api, store, refresher, newNoopLogger()).Login(context.Background(), sess, "u@example.com", "pw")
	require.NoError(t, err)

	assert.NotEqual(t, "planted-sid", sess.ID)
	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.IsAuthenticated())
	store.AssertExpectations(t)
}
