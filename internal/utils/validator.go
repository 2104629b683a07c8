// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/energy-eservice/internal/models"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("capacity_unit", validateCapacityUnit)
	validate.RegisterValidation("license_type", validateLicenseType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phonePattern.MatchString(phone)
}

func validateCapacityUnit(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "kW", "MW":
		return true
	}
	return false
}

func validateLicenseType(fl validator.FieldLevel) bool {
	return models.LicenseType(fl.Field().String()).IsValid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// GetValidationErrors flattens validator errors into field errors keyed by
// the JSON path below the root struct, e.g. "applicant.email".
func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(e),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "phone":
		return "Phone number must contain 8 to 15 digits"
	case "capacity_unit":
		return "Capacity unit must be kW or MW"
	case "license_type":
		return "License type must be one of new, renewal, extension, reduction"
	case "oneof":
		return e.Field() + " must be one of " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gtfield":
		return e.Field() + " must be after " + e.Param()
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	default:
		return e.Field() + " is invalid"
	}
}
