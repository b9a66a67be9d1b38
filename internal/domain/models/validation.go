package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks the struct tags of v and reports the failures as a
// *ValidationError keyed by json field path.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	result := &ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fieldErr := range fieldErrors {
		result.Fields[fieldPath(fieldErr.Namespace())] = describe(fieldErr)
	}
	return result
}

func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "eqfield":
		return "passwords don't match"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "min":
		return "must have at least " + fieldErr.Param() + " characters or items"
	case "max":
		return "must have at most " + fieldErr.Param() + " characters"
	case "gtefield":
		return "must not be less than " + strings.ToLower(fieldErr.Param())
	case "url":
		return "must be a valid url"
	default:
		return "failed on " + fieldErr.Tag()
	}
}
