package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the scheduling formats to a validator instance,
// so malformed dates and times are rejected at request binding instead of
// deeper in the booking flow.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("dateonly", validDate); err != nil {
		return err
	}
	return v.RegisterValidation("timeofday", validTimeOfDay)
}

func validDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func validTimeOfDay(fl validator.FieldLevel) bool {
	_, err := ParseTimeOfDay(fl.Field().String())
	return err == nil
}
