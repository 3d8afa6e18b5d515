package utils

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{6}$`)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateRecoveryPIN enforces the fixed 6-numeric-digit PIN format.
func ValidateRecoveryPIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return errors.New("recovery PIN must be exactly 6 numeric digits")
	}
	return nil
}
