package domain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestIsValidEmail(t *testing.T) {
	cases := map[string]bool{
		"reader@example.com":        true,
		"first.last+tag@lib.org.uk": true,
		"no-at-sign.example.com":    false,
		"trailing@dot.":             false,
		"@example.com":              false,
		"spaces in@example.com":     false,
		"reader@example.com junk":   false,
		"":                          false,
	}
	for email, want := range cases {
		assert.Equal(t, want, IsValidEmail(email), email)
	}
}

func TestNewUserRejectsMalformedEmail(t *testing.T) {
	_, err := NewUser("not-an-email", "Ada", "Lovelace", "secret")
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestNewUserHashesPassword(t *testing.T) {
	u, err := NewUser("  ada@example.com ", "Ada", "Lovelace", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.Active)
	assert.NotEqual(t, "secret", u.PasswordHash)
	assert.True(t, u.VerifyPassword("secret"))
	assert.False(t, u.VerifyPassword("Secret"))
}

func TestPasswordRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		password := rapid.StringMatching(`[A-Za-z0-9!@#$%^&*]{1,40}`).Draw(t, "password")
		other := rapid.StringMatching(`[A-Za-z0-9!@#$%^&*]{1,40}`).Draw(t, "other")
		var u User
		if err := u.SetPassword(password); err != nil {
			t.Fatalf("SetPassword: %v", err)
		}
		if !u.VerifyPassword(password) {
			t.Fatalf("password %q did not verify", password)
		}
		if other != password && u.VerifyPassword(other) {
			t.Fatalf("wrong password %q verified", other)
		}
	})
}

func TestEmailShapeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := rapid.StringMatching(`[a-z0-9._%+-]{1,16}`).Draw(t, "local")
		host := rapid.StringMatching(`[a-z0-9-]{1,16}`).Draw(t, "host")
		tld := rapid.StringMatching(`[a-z]{2,6}`).Draw(t, "tld")
		if !IsValidEmail(local + "@" + host + "." + tld) {
			t.Fatalf("rejected %s@%s.%s", local, host, tld)
		}
		if IsValidEmail(local + host + "." + tld) {
			t.Fatalf("accepted address without @")
		}
	})
}

func TestReservationHoldsCopy(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusReserved}).HoldsCopy())
	assert.True(t, (&Reservation{Status: StatusBorrowed}).HoldsCopy())
	assert.False(t, (&Reservation{Status: StatusReturned}).HoldsCopy())
	assert.False(t, (&Reservation{Status: "lost"}).HoldsCopy())
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{Message: "Missing required fields!", Fields: map[string]string{
		"title": "Title is required!",
		"isbn":  "Isbn is required!",
	}}
	assert.Equal(t, "Missing required fields! (isbn: Isbn is required!, title: Title is required!)", ve.Error())
	assert.ErrorIs(t, ErrCopyNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrCopyUnavailable, ErrConflict)
}
