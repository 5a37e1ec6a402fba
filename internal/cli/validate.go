package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Rule    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

// ValidationErrors is returned for every rejected command input.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i := range ve {
		msgs[i] = ve[i].Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks cfg against its validate tags.
func Validate(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "endswith":
		return fmt.Sprintf("must end in %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
