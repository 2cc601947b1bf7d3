// Package pkgvalidate checks request payloads with go-playground/validator
// and reports the first failing field as a validation error.
package pkgvalidate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
)

// Validator is safe for concurrent use once built.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator that reports fields by their json name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Struct validates s. It returns nil or a *pkgerror.Error of kind Validation
// naming the first failing field. A value the validator cannot inspect at
// all (nil, non-struct) is a programming error and yields Internal.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return pkgerror.NewInternal(err)
	}

	fe := verrs[0]
	return pkgerror.New(pkgerror.KindValidation, message(fe),
		pkgerror.WithField(fe.Field()),
		pkgerror.WithCause(err),
	)
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
