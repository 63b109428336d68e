package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyPair(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute, time.Hour)

	access, refresh, err := tokens.IssuePair(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := tokens.Verify(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsStaff)

	claims, err = tokens.Verify(refresh, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute, time.Hour)

	access, refresh, err := tokens.IssuePair(7, false)
	require.NoError(t, err)

	_, err = tokens.Verify(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = tokens.Verify(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute, time.Hour)

	access, _, err := tokens.IssuePair(7, false)
	require.NoError(t, err)

	_, err = tokens.Verify(access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewTokens("secret-a", time.Minute, time.Hour)
	verifier := NewTokens("secret-b", time.Minute, time.Hour)

	access, _, err := issuer.IssuePair(7, false)
	require.NoError(t, err)

	_, err = verifier.Verify(access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
