package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage describes a failed validation tag for field.
func DefaultMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "required_if":
		return fmt.Sprintf("%s must not be empty when %s", field, strings.Replace(param, " ", " is ", 1))
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "url":
		return fmt.Sprintf("%s must be an absolute URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed the %q check", field, tag)
	}
}

// Messages turns validator failures into one message per field, naming
// fields by their environment variable where one is known.
func Messages(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := EnvName(fe.StructNamespace())
		if field == "" {
			field = fe.StructNamespace()
		}
		messages = append(messages, DefaultMessage(field, fe.Tag(), fe.Param()))
	}
	return messages
}
