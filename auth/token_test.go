package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsWeakConfig(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	want := Identity{UserID: "4f1c2d9e-8c3a-4d0c-9b7a-3c1f0e2d5a6b", Email: "admin@example.com"}

	token, err := svc.Sign(want)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestService(t).Sign(Identity{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	other, err := NewTokenService(strings.Repeat("z", 32), time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t).WithClock(func() time.Time { return issuedAt })

	token, err := svc.Sign(Identity{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.WithClock(func() time.Time { return issuedAt.Add(30 * time.Minute) }).Verify(token)
	assert.NoError(t, err)

	_, err = svc.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) }).Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsMalformedAndIncompleteTokens(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := map[string]string{
		"garbage":       "not-a-token",
		"empty":         "",
		"missing email": sign(jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}, jwt.SigningMethodHS256, []byte(testSecret)),
		"missing subject": sign(tokenClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}},
			jwt.SigningMethodHS256, []byte(testSecret)),
		"missing expiry": sign(tokenClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}},
			jwt.SigningMethodHS256, []byte(testSecret)),
		"wrong algorithm": sign(tokenClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}},
			jwt.SigningMethodHS512, []byte(testSecret)),
		"unsigned": sign(tokenClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: exp}},
			jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, ComparePassword(hash, "correct horse battery staple"))
	assert.Error(t, ComparePassword(hash, "wrong"))
	assert.Error(t, ComparePassword("not-a-hash", "anything"))
}
