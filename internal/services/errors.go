package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/energy-eservice/internal/utils"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnknownAction     = errors.New("unknown workflow action")
	ErrInvalidTransition = errors.New("action is not available for this request")
	ErrNotOwner          = errors.New("request belongs to another applicant")
)

// ValidationFailed carries field-level errors. Nothing was sent to the
// backend when it is returned.
type ValidationFailed struct {
	Fields []utils.ValidationError
}

func (e *ValidationFailed) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func AsValidationFailed(err error) (*ValidationFailed, bool) {
	var v *ValidationFailed
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func fieldError(field, tag, message string) *ValidationFailed {
	return &ValidationFailed{Fields: []utils.ValidationError{{Field: field, Tag: tag, Message: message}}}
}

// validate runs the struct validator and converts its errors.
func validate(v interface{}) error {
	if err := utils.ValidateStruct(v); err != nil {
		fields := utils.GetValidationErrors(err)
		if len(fields) == 0 {
			return fmt.Errorf("validation: %w", err)
		}
		return &ValidationFailed{Fields: fields}
	}
	return nil
}
