package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	})

	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})

	validate.RegisterValidation("referral_limit", func(fl validator.FieldLevel) bool {
		return IsValidReferralLimit(int(fl.Field().Int()))
	})

	validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return IsValidMinorAmount(fl.Field().Int())
	})

	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		return role == "admin" || role == "user"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "phone":
			errors[field] = "Invalid phone number. Expected format: +" + DefaultCountryCode + "XXXXXXXXX"
		case "person_name":
			errors[field] = "Name must be between 2 and 100 characters"
		case "password":
			errors[field] = "Password must be at least 6 characters"
		case "referral_limit":
			errors[field] = "Referral limit must be between 1 and 10"
		case "amount":
			errors[field] = "Amount must be greater than 0"
		case "role":
			errors[field] = "Invalid role. Must be: admin or user"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
