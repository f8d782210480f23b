package auth

import (
	"strings"
	"synaptik/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPassw0rdIsVerySûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)

	// Two hashes of the same password never collide thanks to the salt
	other, err := HashPassword(password)
	req.NoError(err)
	req.NotEqual(hash, other)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	req := require.New(t)
	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=x$a$b", "$argon2id$v=19$m=1,t=1,p=1$!!$b"} {
		_, err := ComparePassword("whatever", encoded)
		req.ErrorIs(err, errors.ErrMalformedHash, "hash=%q", encoded)
	}
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	valid := RegisterRequest{Username: "alice", Email: "test@example.com", Password: "ComplexPass123!"}
	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr error
	}{
		{"Valid request", func(r *RegisterRequest) {}, nil},
		{"Missing username", func(r *RegisterRequest) { r.Username = "" }, errors.ErrMissingFields},
		{"Username with spaces", func(r *RegisterRequest) { r.Username = "al ice" }, errors.ErrMissingFields},
		{"Invalid email", func(r *RegisterRequest) { r.Email = "notanemail" }, errors.ErrMissingFields},
		{"Password too short", func(r *RegisterRequest) { r.Password = "Short1!" }, errors.ErrMissingFields},
		{"Missing digit", func(r *RegisterRequest) { r.Password = "NoDigitPass!" }, errors.ErrInvalidPassword},
		{"Missing special char", func(r *RegisterRequest) { r.Password = "NoSpecialChar123" }, errors.ErrInvalidPassword},
		{"Missing uppercase", func(r *RegisterRequest) { r.Password = "nouppercase123!" }, errors.ErrInvalidPassword},
		{"Password too long", func(r *RegisterRequest) { r.Password = strings.Repeat("a", 73) }, errors.ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := ValidateRegister(r)
			if tt.wantErr == nil {
				req.NoError(err)
			} else {
				req.ErrorIs(err, tt.wantErr)
			}
		})
	}
}

func TestVerifyValidation(t *testing.T) {
	req := require.New(t)
	req.NoError(ValidateVerify(VerifyRequest{Email: "a@b.io", Code: "012345"}))
	req.ErrorIs(ValidateVerify(VerifyRequest{Email: "a@b.io", Code: "12345"}), errors.ErrMissingFields)
	req.ErrorIs(ValidateVerify(VerifyRequest{Email: "a@b.io", Code: "abcdef"}), errors.ErrMissingFields)
	req.ErrorIs(ValidateLogin(LoginRequest{EmailOrUsername: "alice"}), errors.ErrMissingFields)
}

func TestTokenManager(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("a-secret-long-enough-for-hs256", time.Hour)

	// Given a freshly generated token
	raw, err := tokens.Generate("user-1")
	req.NoError(err)

	// Then it validates and carries the user
	claims, err := tokens.Validate(raw)
	req.NoError(err)
	req.Equal("user-1", string(claims.UserID))

	// When signed with another secret
	_, err = NewTokenManager("another-secret", time.Hour).Validate(raw)
	req.ErrorIs(err, errors.ErrInvalidToken)

	// When expired
	expired := NewTokenManager("a-secret-long-enough-for-hs256", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate("user-1")
	req.NoError(err)
	_, err = tokens.Validate(old)
	req.ErrorIs(err, errors.ErrInvalidToken)

	// When garbage
	_, err = tokens.Validate("not-a-jwt")
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestNewOTPCode(t *testing.T) {
	req := require.New(t)
	for range 100 {
		code, err := NewOTPCode()
		req.NoError(err)
		req.Len(code, 6)
		req.NoError(ValidateVerify(VerifyRequest{Email: "a@b.io", Code: code}))
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for b.Loop() {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
