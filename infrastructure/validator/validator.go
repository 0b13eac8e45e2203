package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// report json field names rather than Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}

func validateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &[]error{err}
	}
	errs := []error{}
	for _, fieldErr := range validationErrors {
		errs = append(errs, errors.New(describe(fieldErr)))
	}
	return &errs
}

func validateField(value any, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return errors.New(describe(validationErrors[0]))
	}
	return err
}

func describe(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	if field == "" {
		field = "value"
	}
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "ulid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fieldErr.Tag())
	case "oneof", "role":
		return fmt.Sprintf("%s has an unsupported value", field)
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, strings.ToLower(fieldErr.Param()[:1])+fieldErr.Param()[1:])
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fieldErr.Tag())
}
