package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/fastvisa/internal/models"
)

// GetUser возвращает пользователя по ID.
func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "apiclient.GetUser", http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername ищет пользователя по имени. Создание пользователя не
// возвращает ID, поэтому его получают этим запросом.
func (c *Client) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "apiclient.FindUserByUsername"
	var users []models.User
	path := "/users/search?username=" + url.QueryEscape(username)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, &Error{Op: op, StatusCode: http.StatusNotFound, Body: "user " + username + " not found"}
}

// ListUsers возвращает всех пользователей.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, "apiclient.ListUsers", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser создаёт учётную запись.
func (c *Client) CreateUser(ctx context.Context, user models.User) error {
	return c.do(ctx, "apiclient.CreateUser", http.MethodPost, "/users", user, nil)
}

// UpdateUser обновляет учётную запись.
func (c *Client) UpdateUser(ctx context.Context, id int, user models.User) error {
	return c.do(ctx, "apiclient.UpdateUser", http.MethodPut, fmt.Sprintf("/users/%d", id), user, nil)
}

// DeleteUser удаляет учётную запись.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, "apiclient.DeleteUser", http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// UserPermissions возвращает права роли пользователя.
func (c *Client) UserPermissions(ctx context.Context, userID int) ([]models.Permission, error) {
	var perms []models.Permission
	path := fmt.Sprintf("/users/%d/permissions", userID)
	if err := c.do(ctx, "apiclient.UserPermissions", http.MethodGet, path, nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login проверяет учётные данные пользователя во внешнем API.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, "apiclient.Login", http.MethodPost, "/users/login", loginRequest{
		Username: username,
		Password: password,
	}, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword меняет пароль пользователя.
func (c *Client) ChangePassword(ctx context.Context, userID int, current, next string) error {
	path := fmt.Sprintf("/users/%d/password", userID)
	return c.do(ctx, "apiclient.ChangePassword", http.MethodPut, path, changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

// ListRoles возвращает доступные роли.
func (c *Client) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := c.do(ctx, "apiclient.ListRoles", http.MethodGet, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// VerifyEmail подтверждает адрес по токену из письма.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, "apiclient.VerifyEmail", http.MethodPost, "/users/verify-email",
		map[string]string{"token": token}, nil)
}

// ResendVerification повторно отправляет письмо подтверждения.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, "apiclient.ResendVerification", http.MethodPost, "/users/resend-verification",
		map[string]string{"email": email}, nil)
}
