package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenPairRoundtrip(t *testing.T) {
	userID := uuid.New()
	pair, err := IssueTokenPair(testSecret, userID, true, time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccess(testSecret, pair.Access)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.True(t, claims.IsAdmin)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	pair, err := IssueTokenPair(testSecret, uuid.New(), false, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccess("other-secret", pair.Access)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	pair, err := IssueTokenPair(testSecret, uuid.New(), false, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccess(testSecret, pair.Access)
	require.Error(t, err)
}

func TestRefreshTokenNotUsableAsAccess(t *testing.T) {
	pair, err := IssueTokenPair(testSecret, uuid.New(), false, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccess(testSecret, pair.Refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccess(t *testing.T) {
	userID := uuid.New()
	pair, err := IssueTokenPair(testSecret, userID, false, time.Minute, time.Hour)
	require.NoError(t, err)

	access, err := RefreshAccess(testSecret, pair.Refresh, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccess(testSecret, access)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)

	// An access token cannot be used to mint new tokens.
	_, err = RefreshAccess(testSecret, pair.Access, time.Minute)
	require.ErrorIs(t, err, ErrNotRefresh)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}
