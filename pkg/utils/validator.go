package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a request DTO against its binding tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// SanitizeEmail normalizes an email for lookup and storage.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
