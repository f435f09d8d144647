package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// HashPassword hashes a staff password. Costs outside bcrypt's range fall
// back to bcrypt.DefaultCost; passwords longer than bcrypt accepts are a
// validation error rather than a silent truncation.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError("password too long", map[string]any{"field": "password", "maxLength": 72})
	}
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return string(hashed), nil
}

// PasswordMatches reports whether plain matches hashed. Accounts awaiting
// activation have no hash and never match.
func PasswordMatches(hashed, plain string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
