package auth

import (
	"chat-relay/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateCommand checks the struct tags of a command.
// A failing command is reported as a Validation error.
func ValidateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return &errors.Error{
			Kind:    errors.KindValidation,
			Message: fmt.Sprintf("Invalid request: %s", describe(err)),
			Err:     err,
		}
	}
	return nil
}

func describe(err error) string {
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}
