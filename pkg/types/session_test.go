package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerEmail(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
		wantOK  bool
	}{
		{name: "nil session", session: nil},
		{name: "no user", session: StaticSession{}},
		{name: "user without email", session: StaticSession{User: &User{}}},
		{name: "user with email", session: SessionFor("u@x.com"), want: "u@x.com", wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OwnerEmail(tt.session)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionForEmpty(t *testing.T) {
	assert.Nil(t, SessionFor("").CurrentUser())
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, User{Email: "u@x.com"}.Validate())
	assert.ErrorIs(t, User{Email: "not-an-email"}.Validate(), ErrInvalidEmail)
	assert.ErrorIs(t, User{}.Validate(), ErrInvalidEmail)
}
