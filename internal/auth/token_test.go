package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueThenVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 5*time.Hour)
	userID := primitive.NewObjectID()

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 5*time.Hour)

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 5*time.Hour)
	other := NewTokenIssuer("other-secret", 5*time.Hour)

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 5*time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "raw=%q", raw)
	}
}
