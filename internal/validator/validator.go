package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with the form business rules
type Validator struct {
	structValidator *validator.Validate
	formValidator   *FormValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		formValidator:   NewFormValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	if errs := ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// Form returns the form business rule validator
func (v *Validator) Form() *FormValidator {
	return v.formValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("answer_type", validateAnswerType)
	validate.RegisterValidation("not_blank", validateNotBlank)

	// Report json names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAnswerType(fl validator.FieldLevel) bool {
	return models.AnswerType(fl.Field().String()).IsValid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
