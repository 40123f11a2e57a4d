package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	PasswordMinLength = 8
	passwordSpecials  = `!@#$%^&*(),.?":{}|<>`
)

var upperCaseRe = regexp.MustCompile(`[A-Z]`)

type PasswordCriteria struct {
	MinLength      bool
	HasUpperCase   bool
	HasSpecialChar bool
}

// Count returns how many criteria are satisfied.
func (c PasswordCriteria) Count() int {
	n := 0
	for _, ok := range []bool{c.MinLength, c.HasUpperCase, c.HasSpecialChar} {
		if ok {
			n++
		}
	}
	return n
}

func (c PasswordCriteria) All() bool {
	return c.MinLength && c.HasUpperCase && c.HasSpecialChar
}

type PasswordStrength struct {
	Score int
	Label string
	Color string
}

func ValidatePassword(password string) PasswordCriteria {
	return PasswordCriteria{
		MinLength:      utf8.RuneCountInString(password) >= PasswordMinLength,
		HasUpperCase:   upperCaseRe.MatchString(password),
		HasSpecialChar: strings.ContainsAny(password, passwordSpecials),
	}
}

// GetPasswordStrength buckets the criteria count into a 0-100 meter.
func GetPasswordStrength(password string) PasswordStrength {
	if password == "" {
		return PasswordStrength{Score: 0, Label: "", Color: "#e0e0e0"}
	}

	switch count := ValidatePassword(password).Count(); {
	case count <= 1:
		return PasswordStrength{Score: 33, Label: "Weak", Color: "#ff5252"}
	case count == 2:
		return PasswordStrength{Score: 66, Label: "Medium", Color: "#ffc107"}
	default:
		return PasswordStrength{Score: 100, Label: "Strong", Color: "#28a745"}
	}
}

// IsStrongPassword is the submit gate: every criterion must hold, which is
// stricter than the "Medium" bucket of the meter.
func IsStrongPassword(password string) bool {
	return ValidatePassword(password).All()
}
