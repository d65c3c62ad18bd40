package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/deskline/helpdesk-service/pkg/util"
)

// HashPassword hashes a plaintext password with the configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ValidatePasswordStrength enforces the account password rules: at
// least 8 characters with an uppercase letter, a digit and a special
// character.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	var upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			special = true
		}
	}
	if !upper {
		return apperrors.NewValidationError("password must contain an uppercase letter", nil)
	}
	if !digit {
		return apperrors.NewValidationError("password must contain a digit", nil)
	}
	if !special {
		return apperrors.NewValidationError("password must contain a special character", nil)
	}
	return nil
}
