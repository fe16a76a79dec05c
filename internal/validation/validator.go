package validation

import (
	"errors"
	"reflect"
	"strings"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/util"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct checks the validate tags of a request body. Failures are returned as an
// invalid input error whose "fields" detail maps each offending field to the failed rule.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInvalidInputError("request validation failed")
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return domain.NewInvalidInputError("request validation failed").WithContext("fields", fields)
}

// ValidateULID validates an identifier issued by this service.
func (v *Validator) ValidateULID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewInvalidInputError(field+" is required").WithContext("field", field)
	}
	if !util.IsULID(value) {
		return domain.NewInvalidInputError(field+" has an invalid format").WithContext("field", field)
	}
	return nil
}
