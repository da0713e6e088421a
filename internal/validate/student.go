// Package validate checks the student add/edit form before anything is written.
package validate

import (
	"errors"
	"html"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/crucial707/student-records/internal/models"
)

// MaxAge is the oldest accepted student age.
const MaxAge = 150

// Column widths of the students table.
const (
	MaxNameLen  = 100
	MaxGradeLen = 10
)

// User-facing rejection messages.
const (
	MsgInvalidFormat = "Invalid input format"
	MsgInvalidAge    = "Invalid age"
)

// StudentForm is the raw form as submitted. Age stays a string so that
// "-1" and "abc" are rejected by the same rule as "151".
type StudentForm struct {
	Name  string `validate:"required,max=100,alphanumunicode"`
	Age   string `validate:"required,age"`
	Grade string `validate:"required,max=10,alphaunicode"`
}

// Error is a rejected form. Fields maps the form field to the failed rule.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("age", validAge); err != nil {
		panic(err)
	}
	return v
}

// validAge accepts a non-empty run of ASCII digits whose value is at most MaxAge.
func validAge(fl validator.FieldLevel) bool {
	_, ok := parseAge(fl.Field().String())
	return ok
}

func parseAge(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxAge {
		return 0, false
	}
	return n, true
}

// Student escapes the name, validates the form and returns the record to store.
// A bad name or grade is reported before a bad age.
func Student(form StudentForm) (models.Student, error) {
	form.Name = html.EscapeString(form.Name)

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.Student{}, err
		}
		return models.Student{}, toError(verrs)
	}

	age, _ := parseAge(form.Age)
	return models.Student{Name: form.Name, Age: age, Grade: form.Grade}, nil
}

func toError(verrs validator.ValidationErrors) *Error {
	out := &Error{Message: MsgInvalidAge, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe.Field())] = fe.Tag()
		if fe.Field() != "Age" {
			out.Message = MsgInvalidFormat
		}
	}
	return out
}

func fieldName(f string) string {
	switch f {
	case "Name":
		return "name"
	case "Age":
		return "age"
	case "Grade":
		return "grade"
	}
	return f
}
