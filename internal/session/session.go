// Package session описывает серверную сессию пользователя и её хранилище.
//
// Сессия заменяет ключи sessionStorage вкладки браузера: одна запись JSON в
// Redis на cookie, последним пишущим побеждает. Сессия создаётся при входе и
// очищается при выходе.
package session

import (
	"github.com/google/uuid"

	"github.com/magabrotheeeer/fastvisa/internal/models"
)

// Session — типизированное состояние сессии. JSON-ключи совпадают с ключами,
// которыми пользуется клиентская часть.
type Session struct {
	ID                   string              `json:"-"`
	UserID               int                 `json:"fastVisa_userid,omitempty"`
	Username             string              `json:"fastVisa_username,omitempty"`
	Name                 string              `json:"fastVisa_name,omitempty"`
	CountryCode          string              `json:"country_code,omitempty"`
	ConcurrentApplicants int                 `json:"concurrent_applicants,omitempty"`
	Permissions          []models.Permission `json:"fastVisa_permissions,omitempty"`
	ApplicantUserID      int                 `json:"applicant_userid,omitempty"`
}

// New создаёт пустую анонимную сессию с новым идентификатором.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// IsAuthenticated сообщает, есть ли в сессии идентификатор пользователя.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != 0
}

// SetUser записывает данные вошедшего пользователя.
func (s *Session) SetUser(u models.User) {
	s.UserID = u.ID
	s.Username = u.Username
	if u.Name != "" {
		s.Name = u.Name
	}
	s.CountryCode = u.CountryCode
	s.ConcurrentApplicants = u.ConcurrentApplicants
}

// Clear удаляет все ключи сессии, сохраняя идентификатор.
func (s *Session) Clear() {
	*s = Session{ID: s.ID}
}

// Rotate очищает сессию и выдаёт ей новый идентификатор. Возвращает прежний.
func (s *Session) Rotate() string {
	prev := s.ID
	*s = Session{ID: uuid.NewString()}
	return prev
}
