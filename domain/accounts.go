package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultDisplayName = "Usuário"

type User struct {
	Id      int64
	Email   string
	Name    string
	Surname string
	Phone   string
}

// AuthSession is the bearer token and the profile it belongs to.
type AuthSession struct {
	Token string
	User  User
}

func (s *AuthSession) Valid() bool {
	return s != nil && s.Token != ""
}

// Registration is the payload of a new account.
type Registration struct {
	Name     string
	Surname  string
	Phone    string
	Email    string
	Password string
	Confirm  string
}

// Validate runs the local checks that must pass before the register call.
func (r *Registration) Validate() error {
	if r.Password != r.Confirm {
		return ErrPasswordMismatch
	}
	if !IsStrongPassword(r.Password) {
		return ErrWeakPassword
	}
	return nil
}

// DisplayName greets the user by name, falling back to the email local part.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email == "" {
		return DefaultDisplayName
	}
	local, _, _ := strings.Cut(u.Email, "@")
	if local == "" {
		return DefaultDisplayName
	}
	r, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(r)) + local[size:]
}

func (u *User) ToString() string {
	return fmt.Sprintf("\n\tId: %d \n\tEmail: %s \n\tName: %s %s)", u.Id, u.Email, u.Name, u.Surname)
}
