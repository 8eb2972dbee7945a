package models

// RegisterForm — данные формы регистрации.
type RegisterForm struct {
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"omitempty,min=7,max=20"`
	CountryCode     string `json:"country_code" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ResendVerificationForm — адрес для повторной отправки письма подтверждения.
type ResendVerificationForm struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginForm — данные формы входа.
type LoginForm struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordForm — данные формы смены пароля.
type ChangePasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// QuickStartForm — минимальный набор данных для быстрого старта.
// Email и Password — учётные данные AIS, обязательны только для стран с городами.
type QuickStartForm struct {
	CountryCode string `json:"country_code" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// UserUpdateForm — изменения учётной записи, доступные администратору.
type UserUpdateForm struct {
	Name                 string `json:"name" validate:"required"`
	Phone                string `json:"phone" validate:"omitempty,min=7,max=20"`
	CountryCode          string `json:"country_code" validate:"required"`
	RoleID               int    `json:"role_id" validate:"required,gt=0"`
	Active               bool   `json:"active"`
	ExpirationDate       string `json:"expiration_date" validate:"omitempty"`
	ConcurrentApplicants int    `json:"concurrent_applicants" validate:"gte=0"`
}
