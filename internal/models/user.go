package models

// User представляет учётную запись пользователя FastVisa.
type User struct {
	ID                   int    `json:"id,omitempty"`
	Username             string `json:"username"`
	Name                 string `json:"name"`
	Phone                string `json:"phone,omitempty"`
	CountryCode          string `json:"country_code"`
	RoleID               int    `json:"role_id"`
	Active               bool   `json:"active"`
	ExpirationDate       string `json:"expiration_date,omitempty"`
	ConcurrentApplicants int    `json:"concurrent_applicants"`
	// Password передаётся только при создании учётной записи.
	Password string `json:"password,omitempty"`
}

// Role — роль пользователя во внешнем API.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Permission — именованное право, привязанное к роли.
type Permission struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FailureNotice — уведомление администратору о неудачной аутентификации в AIS.
type FailureNotice struct {
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Reason      string `json:"reason"`
}
