package validation

import (
	"github.com/go-playground/validator/v10"
)

// New returns the validator used for decoded request bodies. Besides the
// built-in tags it knows "account_email", which applies ValidateEmail.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String()) == nil
	})
	if err != nil {
		panic(err)
	}

	return v
}
