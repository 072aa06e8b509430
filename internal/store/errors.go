package store

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError — ошибка в конкретном поле входных данных.
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError — входные данные не прошли проверку; хранилище не менялось.
type ValidationError struct {
	Msg    string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
	}
	msg := e.Msg
	if msg == "" {
		msg = "invalid input"
	}
	return msg + ": " + strings.Join(parts, ", ")
}

// NotFoundError — нет записи, на которую ссылается операция.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// PreconditionError — не выполнено бизнес-условие (нет активного года, повторная отметка и т.п.).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func notFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsPrecondition(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

// IsDomain — ошибка из таксономии хранилища (её показывают пользователю, в Sentry не шлют).
func IsDomain(err error) bool {
	return IsValidation(err) || IsNotFound(err) || IsPrecondition(err)
}

func errKind(err error) string {
	switch {
	case IsValidation(err):
		return "validation"
	case IsNotFound(err):
		return "not_found"
	case IsPrecondition(err):
		return "precondition"
	default:
		return "internal"
	}
}
