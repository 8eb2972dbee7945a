// Package validation выполняет синхронную поле-за-полем проверку форм.
//
// Правила тегов проверяет go-playground/validator, перекрёстные правила по
// датам и городам проверяются кодом. Результат — карта JSON-имя поля →
// сообщение; пустая карта означает, что форма корректна.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/models"
)

// FieldErrors — ошибки по полям формы.
type FieldErrors map[string]string

// Add сохраняет первое сообщение для поля.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Empty сообщает, что ошибок нет.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, k := range fields {
		msgs = append(msgs, f[k])
	}
	return strings.Join(msgs, ", ")
}

// Validator проверяет формы приложения.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New создает Validator, который называет поля по их JSON-именам.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v, now: time.Now}
}

// Struct проверяет теги validate.
func (v *Validator) Struct(s any) FieldErrors {
	errs := FieldErrors{}
	err := v.validate.Struct(s)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("form", "form is not valid")
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", field)
	case "email":
		return fmt.Sprintf("field %s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("field %s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("field %s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("field %s does not match", field)
	case "oneof":
		return fmt.Sprintf("field %s must be one of: %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("field %s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("field %s is not valid", field)
	}
}

func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Applicant проверяет форму заявителя. При создании пароль AIS обязателен,
// при редактировании пустой пароль означает «не менять».
func (v *Validator) Applicant(form models.ApplicantForm, creating bool) FieldErrors {
	errs := v.Struct(form)

	if creating && form.AISPassword == "" {
		errs.Add("ais_password", "field ais_password is a required field")
	}

	if form.CountryCode != "" {
		if _, ok := catalog.Lookup(form.CountryCode); !ok {
			errs.Add("country_code", "field country_code is not a supported country")
		} else if len(form.TargetCityCodes) > 0 && !catalog.ValidCityCodes(form.CountryCode, form.TargetCityCodes) {
			errs.Add("target_city_codes", "field target_city_codes contains unknown cities")
		}
	}

	today := v.today()
	start := today
	switch models.StartMode(form.TargetStartMode) {
	case models.StartInDays:
		if form.TargetStartDays < 0 {
			errs.Add("target_start_days", "field target_start_days must not be negative")
		} else {
			start = today.AddDate(0, 0, form.TargetStartDays)
		}
	case models.StartOnDate:
		if form.TargetStartDate == "" {
			errs.Add("target_start_date", "field target_start_date is a required field")
			break
		}
		d, err := time.Parse(models.DateLayout, form.TargetStartDate)
		if err != nil {
			errs.Add("target_start_date", "field target_start_date must be a date in format YYYY-MM-DD")
			break
		}
		if d.Before(today) {
			errs.Add("target_start_date", "field target_start_date must not be in the past")
			break
		}
		start = d
	}

	if form.TargetEndDate != "" {
		end, err := time.Parse(models.DateLayout, form.TargetEndDate)
		switch {
		case err != nil:
			errs.Add("target_end_date", "field target_end_date must be a date in format YYYY-MM-DD")
		case !end.After(start):
			errs.Add("target_end_date", "field target_end_date must be after the start of the search window")
		}
	}
	return errs
}

// QuickStart проверяет форму быстрого старта: страна обязательна всегда,
// учётные данные AIS — только если в стране есть города для записи.
func (v *Validator) QuickStart(form models.QuickStartForm) FieldErrors {
	errs := v.Struct(form)
	if form.CountryCode == "" {
		return errs
	}
	country, ok := catalog.Lookup(form.CountryCode)
	if !ok {
		errs.Add("country_code", "field country_code is not a supported country")
		return errs
	}
	if country.HasCities() {
		if form.Email == "" {
			errs.Add("email", "field email is a required field")
		}
		if form.Password == "" {
			errs.Add("password", "field password is a required field")
		}
	}
	return errs
}
