package auth

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordPolicy indicates a password failing one of the complexity rules.
	ErrPasswordPolicy = eris.New("password does not meet complexity requirements")
	// ErrInvalidUsername indicates a malformed username.
	ErrInvalidUsername = eris.New("invalid username")
)

const (
	minPasswordLength = 8
	minUsernameLength = 3
	maxUsernameLength = 20
	passwordSymbols   = `!@#$%^&*(),.?":{}|<>`
)

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", eris.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the signup complexity rules: at least eight
// characters with an uppercase letter, a digit and a symbol.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return eris.Wrapf(ErrPasswordPolicy, "password must be at least %d characters", minPasswordLength)
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		return eris.Wrap(ErrPasswordPolicy, "password must contain an uppercase letter")
	}
	if !hasDigit {
		return eris.Wrap(ErrPasswordPolicy, "password must contain a digit")
	}
	if !hasSymbol {
		return eris.Wrap(ErrPasswordPolicy, "password must contain a symbol")
	}

	return nil
}

// ValidateUsername enforces the signup username rules: three to twenty
// characters drawn from letters, digits and underscores.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return eris.Wrapf(ErrInvalidUsername, "username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}

	for _, r := range username {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '_' {
			return eris.Wrap(ErrInvalidUsername, "username may only contain letters, digits and underscores")
		}
	}

	return nil
}
