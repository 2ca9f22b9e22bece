package types

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// User is the signed-in principal whose email owns saved records.
type User struct {
	Email string `json:"email" yaml:"email" validate:"required,email"`
}

// ErrInvalidEmail is returned by User.Validate for a malformed address.
var ErrInvalidEmail = errors.New("invalid user email")

// Validate checks that the email is a well-formed address.
func (u User) Validate() error {
	if err := structValidator().Struct(u); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrInvalidEmail
		}
		return err
	}
	return nil
}

// Session reports the current user. CurrentUser returns nil when nobody is
// signed in. Stores consult it on every save.
type Session interface {
	CurrentUser() *User
}

// StaticSession is a Session with a fixed user. The zero value has no user.
type StaticSession struct {
	User *User
}

// CurrentUser implements Session.
func (s StaticSession) CurrentUser() *User {
	return s.User
}

// SessionFor returns a Session for email, or one with no user when email is
// empty.
func SessionFor(email string) Session {
	if email == "" {
		return StaticSession{}
	}
	return StaticSession{User: &User{Email: email}}
}

// OwnerEmail returns the email to stamp on a saved record: the session
// user's email when one is known and non-empty.
func OwnerEmail(s Session) (string, bool) {
	if s == nil {
		return "", false
	}
	u := s.CurrentUser()
	if u == nil || u.Email == "" {
		return "", false
	}
	return u.Email, true
}
