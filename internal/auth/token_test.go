package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/email-platform/internal/domain"
)

func testUser() *domain.User {
	orgID := "org-1"
	return &domain.User{
		ID:             "user-1",
		Email:          "alice@example.com",
		Role:           domain.RoleManager,
		OrganizationID: &orgID,
	}
}

func TestGeneratePairRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := tm.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.Subject)
	assert.Equal(t, "alice@example.com", access.Email)
	assert.Equal(t, domain.RoleManager, access.Role)
	require.NotNil(t, access.OrganizationID)
	assert.Equal(t, "org-1", *access.OrganizationID)
	assert.Empty(t, access.ID)

	refresh, err := tm.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.Subject)
	assert.NotEmpty(t, refresh.ID, "refresh token carries a jti")
}

func TestRefreshTokensCarryUniqueJTI(t *testing.T) {
	tm := NewTokenManager("secret", 15*time.Minute, 7*24*time.Hour)

	first, err := tm.GeneratePair(testUser())
	require.NoError(t, err)
	second, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	firstClaims, err := tm.ParseToken(first.RefreshToken)
	require.NoError(t, err)
	secondClaims, err := tm.ParseToken(second.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	tm := NewTokenManager("secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseToken(pair.AccessToken + "x")
	assert.Error(t, err)

	_, err = tm.ParseToken("not-a-token")
	assert.Error(t, err)

	other := NewTokenManager("different-secret", 15*time.Minute, 7*24*time.Hour)
	_, err = other.ParseToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Millisecond, time.Millisecond)

	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = tm.ParseToken(pair.AccessToken)
	assert.Error(t, err)
	_, err = tm.ParseToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestNewTokenManagerDefaults(t *testing.T) {
	tm := NewTokenManager("secret", 0, 0)
	assert.Equal(t, 15*time.Minute, tm.accessTTL)
	assert.Equal(t, 7*24*time.Hour, tm.refreshTTL)
}
