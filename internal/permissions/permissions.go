// Package permissions отвечает на вопросы о возможностях текущей сессии.
//
// Set строится один раз из списка прав, закешированного в сессии после входа,
// и не пересчитывается при каждом вызове предиката. Gate обновляет кеш по
// явному запросу; автоматической инвалидации нет.
package permissions

import "github.com/magabrotheeeer/fastvisa/internal/models"

// Capability — типизированное имя права.
type Capability string

const (
	ManageApplicants  Capability = "manage_applicants"
	ViewAllApplicants Capability = "view_all_applicants"
	ManageUsers       Capability = "manage_users"
	ClearStatus       Capability = "clear_status"
	SearchUnlimited   Capability = "search_unlimited"
)

// Set — неизменяемый набор прав.
type Set struct {
	caps map[Capability]struct{}
}

// NewSet строит набор из списка прав. Сравнение имён точное.
func NewSet(perms []models.Permission) Set {
	caps := make(map[Capability]struct{}, len(perms))
	for _, p := range perms {
		caps[Capability(p.Name)] = struct{}{}
	}
	return Set{caps: caps}
}

// Has сообщает, есть ли право в наборе.
func (s Set) Has(c Capability) bool {
	_, ok := s.caps[c]
	return ok
}

// CanManageApplicants разрешает менять чужих заявителей и смотреть их пароли.
func (s Set) CanManageApplicants() bool { return s.Has(ManageApplicants) }

// CanViewAllApplicants разрешает видеть и искать всех заявителей.
func (s Set) CanViewAllApplicants() bool { return s.Has(ViewAllApplicants) }

// CanManageUsers открывает администрирование пользователей.
func (s Set) CanManageUsers() bool { return s.Has(ManageUsers) }

// CanClearStatus разрешает сбрасывать статус поиска в Stopped.
func (s Set) CanClearStatus() bool { return s.Has(ClearStatus) }

// CanSearchUnlimited снимает лимит одновременно запущенных поисков.
func (s Set) CanSearchUnlimited() bool { return s.Has(SearchUnlimited) }

// Flags — представление набора для клиентской части.
type Flags struct {
	ManageApplicants  bool `json:"can_manage_applicants"`
	ViewAllApplicants bool `json:"can_view_all_applicants"`
	ManageUsers       bool `json:"can_manage_users"`
	ClearStatus       bool `json:"can_clear_status"`
	SearchUnlimited   bool `json:"can_search_unlimited"`
}

// Flags возвращает все предикаты разом.
func (s Set) Flags() Flags {
	return Flags{
		ManageApplicants:  s.CanManageApplicants(),
		ViewAllApplicants: s.CanViewAllApplicants(),
		ManageUsers:       s.CanManageUsers(),
		ClearStatus:       s.CanClearStatus(),
		SearchUnlimited:   s.CanSearchUnlimited(),
	}
}
