package store

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Spok95/school-portal/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("session", func(fl validator.FieldLevel) bool {
		return models.Session(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("attendance", func(fl validator.FieldLevel) bool {
		return models.AttendanceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("examtype", func(fl validator.FieldLevel) bool {
		return models.ExamType(fl.Field().String()).Order() >= 0
	})
	return v
}

// check прогоняет структуру через валидатор и переводит ошибки в ValidationError.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		ve := &ValidationError{Msg: "invalid input"}
		for _, fe := range ves {
			ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return ve
	}
	return fmt.Errorf("validate %T: %w", in, err)
}
