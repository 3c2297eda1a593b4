// Package validation checks write payloads before they reach a store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"chargallery/apperr"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Normalizer is implemented by payloads that trim or fold their fields before
// being checked.
type Normalizer interface {
	Normalize()
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag name.
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		_, err := bson.ObjectIDFromHex(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Validate normalizes s when it can and then checks its tags. Failures come
// back as an apperr validation error listing every rejected field.
func (v *Validator) Validate(s any) error {
	if n, ok := s.(Normalizer); ok {
		n.Normalize()
	}
	if err := v.v.Struct(s); err != nil {
		return formatError(err)
	}
	return nil
}

func formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make([]apperr.FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		fields = append(fields, apperr.FieldError{Field: e.Field(), Message: message(e)})
	}
	return apperr.Validation(fields...)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s character(s)", e.Param())
	case "max":
		return fmt.Sprintf("must contain at most %s character(s)", e.Param())
	case "email":
		return "must be a valid email address"
	case "objectid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}
