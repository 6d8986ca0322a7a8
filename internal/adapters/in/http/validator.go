package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"kds/internal/core/domain/model/order"

	"github.com/go-playground/validator/v10"
)

var externalIDPattern = regexp.MustCompile(`^[A-Za-z]{3}-\d{3}$`)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	// Blank counts as absent; surrounding spaces and case are normalized later.
	_ = v.RegisterValidation("externalid", func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		return raw == "" || externalIDPattern.MatchString(raw)
	})
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		_, err := order.ParseStatus(fl.Field().String())
		return err == nil
	})

	return &RequestValidator{validate: v}
}

// Validate returns a *ValidationError listing every failed field.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldPath(fe)+" "+describe(fe))
	}
	return &ValidationError{Messages: messages}
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// fieldPath drops the root struct name: "items[0].price.amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "min":
		return "must not be empty"
	case "externalid":
		return "must be 3 letters, hyphen, 3 digits (e.g. GLO-123)"
	case "orderstatus":
		return "must be one of: PENDING, IN_PROGRESS, READY, DELIVERED"
	default:
		return "is invalid"
	}
}
