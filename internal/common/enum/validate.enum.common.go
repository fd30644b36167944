package enum

import "github.com/go-playground/validator/v10"

type validatable interface {
	IsValid() bool
}

// ValidateEnum backs the `enum` validation tag. Empty values pass so the tag
// composes with omitempty and required.
func ValidateEnum(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	value, ok := fl.Field().Interface().(validatable)
	if !ok {
		return false
	}
	return value.IsValid()
}
