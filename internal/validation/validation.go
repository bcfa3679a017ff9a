// Package validation validates request payloads and produces field-level error messages.
package validation

import (
	"fmt"
	"strings"

	"yummigo/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request payload struct by its `validate` tags. On
// failure it returns an AppError carrying one message per offending field,
// keyed by the field's JSON name.
func Struct(payload any) *models.AppError {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	ok := false
	if e, isVErrs := err.(validator.ValidationErrors); isVErrs {
		verrs = e
		ok = true
	}
	if !ok {
		return models.NewValidationError("Invalid request body")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = message(fe)
	}
	return models.NewFieldValidationError(fields)
}

// jsonName lower-cases the first rune of the Go field name, matching the
// camelCase JSON tags used on request structs.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", jsonName(fe.Field()))
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a well-formed URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
