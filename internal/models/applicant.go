// Package models содержит доменные структуры FastVisa: заявителя (applicant),
// пользователя, роли и права. Структуры повторяют JSON внешнего REST API.
package models

// SearchStatus — состояние удалённого поиска записи, которым управляет внешний API.
type SearchStatus string

const (
	SearchStopped   SearchStatus = "Stopped"
	SearchRunning   SearchStatus = "Running"
	SearchError     SearchStatus = "Error"
	SearchCompleted SearchStatus = "Completed"
)

// Valid проверяет, что статус входит в известный набор.
func (s SearchStatus) Valid() bool {
	switch s {
	case SearchStopped, SearchRunning, SearchError, SearchCompleted:
		return true
	}
	return false
}

// StartMode определяет, как задаётся начало окна поиска.
type StartMode string

const (
	// StartInDays — начало окна через N дней от сегодняшнего.
	StartInDays StartMode = "days"
	// StartOnDate — начало окна с конкретной даты.
	StartOnDate StartMode = "date"
)

// DateLayout — формат дат, которыми обменивается внешний API.
const DateLayout = "2006-01-02"

// Applicant представляет задачу поиска записи на визу с собственными учётными данными AIS.
type Applicant struct {
	ID              int          `json:"id,omitempty"`
	UserID          int          `json:"user_id"`
	Username        string       `json:"username"`
	Name            string       `json:"name"`
	AISUsername     string       `json:"ais_username"`
	AISPassword     string       `json:"ais_password,omitempty"`
	AISScheduleID   string       `json:"ais_schedule_id"`
	CountryCode     string       `json:"country_code"`
	TargetStartMode StartMode    `json:"target_start_mode"`
	TargetStartDays int          `json:"target_start_days"`
	TargetStartDate string       `json:"target_start_date,omitempty"`
	TargetEndDate   string       `json:"target_end_date"`
	TargetCityCodes string       `json:"target_city_codes"`
	Active          bool         `json:"active"`
	SearchStatus    SearchStatus `json:"search_status,omitempty"`
}

// ApplicantForm используется для приёма данных формы заявителя из JSON-запроса
// до валидации и преобразования в Applicant.
type ApplicantForm struct {
	Name            string   `json:"name" validate:"required"`
	AISUsername     string   `json:"ais_username" validate:"required,email"`
	AISPassword     string   `json:"ais_password" validate:"omitempty"`
	AISScheduleID   string   `json:"ais_schedule_id" validate:"required"`
	CountryCode     string   `json:"country_code" validate:"required"`
	TargetStartMode string   `json:"target_start_mode" validate:"required,oneof=days date"`
	TargetStartDays int      `json:"target_start_days"`
	TargetStartDate string   `json:"target_start_date"`
	TargetEndDate   string   `json:"target_end_date" validate:"required"`
	TargetCityCodes []string `json:"target_city_codes" validate:"required,min=1"`
	Active          bool     `json:"active"`
	// UserID позволяет администратору создать заявителя для другого пользователя.
	UserID int `json:"user_id,omitempty"`
}

// AISCredentials — учётные данные во внешней системе записи.
type AISCredentials struct {
	Username    string `json:"username" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	CountryCode string `json:"country_code" validate:"required"`
}

// AISProfile — данные, которые возвращает аутентификация в AIS.
type AISProfile struct {
	ScheduleID    string `json:"schedule_id"`
	ApplicantName string `json:"applicant_name"`
}
