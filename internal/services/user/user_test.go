package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fastvisa/internal/models"
	services "github.com/magabrotheeeer/fastvisa/internal/services/user"
	"github.com/magabrotheeeer/fastvisa/internal/session"
	"github.com/magabrotheeeer/fastvisa/internal/validation"
)

type APIMock struct {
	mock.Mock
}

func (m *APIMock) GetUser(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *APIMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]models.User)
	return u, args.Error(1)
}

func (m *APIMock) CreateUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *APIMock) UpdateUser(ctx context.Context, id int, user models.User) error {
	return m.Called(ctx, id, user).Error(0)
}

func (m *APIMock) DeleteUser(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *APIMock) ChangePassword(ctx context.Context, userID int, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *APIMock) ListRoles(ctx context.Context) ([]models.Role, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]models.Role)
	return r, args.Error(1)
}

func (m *APIMock) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *APIMock) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(api *APIMock) *services.Service {
	return services.NewService(api, validation.New(), services.Defaults{
		RoleName:    "basic",
		RoleID:      3,
		TrialPeriod: 30 * 24 * time.Hour,
	}, newNoopLogger())
}

func admin() *session.Session {
	return &session.Session{ID: "sid", UserID: 1, Permissions: []models.Permission{{ID: 1, Name: "manage_users"}}}
}

func TestService_ResolveRoleID(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		api := new(APIMock)
		api.On("ListRoles", mock.Anything).Return([]models.Role{{ID: 1, Name: "admin"}, {ID: 4, Name: "Basic"}}, nil).Once()
		assert.Equal(t, 4, newService(api).ResolveRoleID(context.Background()))
	})

	t.Run("fallback on error", func(t *testing.T) {
		api := new(APIMock)
		api.On("ListRoles", mock.Anything).Return(nil, errors.New("boom")).Once()
		assert.Equal(t, 3, newService(api).ResolveRoleID(context.Background()))
	})

	t.Run("fallback when missing", func(t *testing.T) {
		api := new(APIMock)
		api.On("ListRoles", mock.Anything).Return([]models.Role{{ID: 1, Name: "admin"}}, nil).Once()
		assert.Equal(t, 3, newService(api).ResolveRoleID(context.Background()))
	})
}

func TestService_Register(t *testing.T) {
	form := models.RegisterForm{
		Email:           "New@Example.com",
		Name:            "New User",
		CountryCode:     "es-co",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	t.Run("success even if verification mail fails", func(t *testing.T) {
		api := new(APIMock)
		api.On("ListRoles", mock.Anything).Return([]models.Role{{ID: 4, Name: "basic"}}, nil).Once()
		api.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "new@example.com" && u.RoleID == 4 && u.Password == "password123" && u.ExpirationDate != "" && !u.Active
		})).Return(nil).Once()
		api.On("ResendVerification", mock.Anything, "new@example.com").Return(errors.New("smtp down")).Once()

		require.NoError(t, newService(api).Register(context.Background(), form))
		api.AssertExpectations(t)
	})

	t.Run("password mismatch", func(t *testing.T) {
		api := new(APIMock)
		bad := form
		bad.ConfirmPassword = "other"
		err := newService(api).Register(context.Background(), bad)

		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "confirm_password")
		api.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("unsupported country", func(t *testing.T) {
		bad := form
		bad.CountryCode = "zz"
		err := newService(new(APIMock)).Register(context.Background(), bad)

		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "country_code")
	})
}

func TestService_ChangePassword(t *testing.T) {
	sess := &session.Session{ID: "sid", UserID: 9}

	t.Run("success", func(t *testing.T) {
		api := new(APIMock)
		api.On("ChangePassword", mock.Anything, 9, "oldpassword", "newpassword").Return(nil).Once()
		err := newService(api).ChangePassword(context.Background(), sess, models.ChangePasswordForm{
			CurrentPassword: "oldpassword", NewPassword: "newpassword", ConfirmPassword: "newpassword",
		})
		require.NoError(t, err)
	})

	t.Run("same password", func(t *testing.T) {
		err := newService(new(APIMock)).ChangePassword(context.Background(), sess, models.ChangePasswordForm{
			CurrentPassword: "samepassword", NewPassword: "samepassword", ConfirmPassword: "samepassword",
		})
		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "new_password")
	})
}

func TestService_AdminOperations(t *testing.T) {
	plain := &session.Session{ID: "sid", UserID: 2}

	_, err := newService(new(APIMock)).List(context.Background(), plain)
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = newService(new(APIMock)).Delete(context.Background(), admin(), 1)
	assert.ErrorIs(t, err, services.ErrSelfDelete)

	api := new(APIMock)
	api.On("DeleteUser", mock.Anything, 5).Return(nil).Once()
	require.NoError(t, newService(api).Delete(context.Background(), admin(), 5))

	api = new(APIMock)
	api.On("GetUser", mock.Anything, 5).Return(&models.User{ID: 5, Username: "u@example.com", Password: "x"}, nil).Once()
	api.On("UpdateUser", mock.Anything, 5, mock.MatchedBy(func(u models.User) bool {
		return u.RoleID == 2 && u.ConcurrentApplicants == 3 && u.Password == "" && u.Username == "u@example.com"
	})).Return(nil).Once()
	err = newService(api).Update(context.Background(), admin(), 5, models.UserUpdateForm{
		Name: "U", CountryCode: "es-mx", RoleID: 2, Active: true, ConcurrentApplicants: 3, ExpirationDate: "2027-01-01",
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestService_VerifyEmail(t *testing.T) {
	err := newService(new(APIMock)).VerifyEmail(context.Background(), " ")
	var fieldErrs validation.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	api := new(APIMock)
	api.On("VerifyEmail", mock.Anything, "tok").Return(nil).Once()
	require.NoError(t, newService(api).VerifyEmail(context.Background(), "tok"))
}

func TestService_ResendVerification(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantField bool
		wantSent  string
	}{
		{name: "normalized", email: "  New@Example.com ", wantSent: "new@example.com"},
		{name: "empty", email: "", wantField: true},
		{name: "at sign only", email: "a@", wantField: true},
		{name: "no domain part", email: "not-an-email", wantField: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(APIMock)
			if tt.wantSent != "" {
				api.On("ResendVerification", mock.Anything, tt.wantSent).Return(nil).Once()
			}

			err := newService(api).ResendVerification(context.Background(), tt.email)
			if tt.wantField {
				var fieldErrs validation.FieldErrors
				require.ErrorAs(t, err, &fieldErrs)
				assert.Contains(t, fieldErrs, "email")
				api.AssertNotCalled(t, "ResendVerification", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			api.AssertExpectations(t)
		})
	}
}
