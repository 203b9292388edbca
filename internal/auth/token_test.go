package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-secret", 30*time.Minute)

	token, err := svc.Issue("a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestExpiredTokenRejected(t *testing.T) {
	// Negative TTL produces a token that is already past its expiry.
	svc := auth.NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue("a@x.com")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := auth.NewTokenService("secret-one", 30*time.Minute)
	validator := auth.NewTokenService("secret-two", 30*time.Minute)

	token, err := issuer.Issue("a@x.com")
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
}

func TestMalformedTokenRejected(t *testing.T) {
	svc := auth.NewTokenService("test-secret", 30*time.Minute)

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := svc.Validate(token)
		assert.True(t, errors.Is(err, apperrors.ErrAuthentication), "token %q should be rejected", token)
	}
}

// All three validation failure modes must be externally identical so that
// callers cannot probe which check failed.
func TestFailureModesCollapse(t *testing.T) {
	svc := auth.NewTokenService("test-secret", 30*time.Minute)
	expired := auth.NewTokenService("test-secret", -time.Minute)
	foreign := auth.NewTokenService("other-secret", 30*time.Minute)

	expiredToken, err := expired.Issue("a@x.com")
	require.NoError(t, err)
	foreignToken, err := foreign.Issue("a@x.com")
	require.NoError(t, err)

	_, errMalformed := svc.Validate("not-a-token")
	_, errExpired := svc.Validate(expiredToken)
	_, errForeign := svc.Validate(foreignToken)

	assert.Equal(t, errMalformed, errExpired)
	assert.Equal(t, errExpired, errForeign)
}
