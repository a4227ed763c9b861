package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "secret", time.Hour)
	require.NoError(t, err)

	accountID, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), accountID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(42, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalAccess(t *testing.T) {
	owner := Principal{AccountID: 7}
	assert.True(t, owner.Owns(7))
	assert.False(t, owner.Owns(8))
	assert.True(t, owner.CanAccessOrderOf(7))
	assert.False(t, owner.CanAccessOrderOf(8))

	admin := Principal{AccountID: 1, Admin: true}
	assert.True(t, admin.CanAccessOrderOf(7))
}
