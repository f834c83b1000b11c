package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/socialmedia/api/shared/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects strings made only of code points up to U+0020
	// (ASCII controls and space). Other Unicode spaces count as content.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimFunc(fl.Field().String(), isTrimmable) != ""
	})
	return v
}

func isTrimmable(r rune) bool { return r <= ' ' }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Error carries every failed field. It unwraps to models.ErrValidation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", models.ErrValidation, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error { return models.ErrValidation }

// Struct validates obj against its `validate` tags.
func Struct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: getErrorMsg(fe),
			Type:    fe.Tag(),
		})
	}
	return &Error{Fields: fields}
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "notblank":
		return "This field must not be blank"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}
