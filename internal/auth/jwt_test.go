package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer("test-secret-key", time.Hour, 24*time.Hour)
}

func TestIssuePairAndParseAccess(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("test-user-id")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	userID, err := issuer.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "test-user-id", userID)
}

func TestParseAccess_InvalidToken(t *testing.T) {
	_, err := newTestIssuer().ParseAccess("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccess_ExpiredToken(t *testing.T) {
	issuer := newTestIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := issuer.IssuePair("test-user-id")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccess_WrongSecret(t *testing.T) {
	pair, err := NewIssuer("other-secret", time.Hour, time.Hour).IssuePair("test-user-id")
	require.NoError(t, err)

	_, err = newTestIssuer().ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccess_RejectsRefreshToken(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair("test-user-id")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestParseAccess_MissingUserID(t *testing.T) {
	claims := jwt.MapClaims{
		"typ": TokenTypeAccess,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = newTestIssuer().ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRefresh(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair("test-user-id")
	require.NoError(t, err)

	fresh, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	userID, err := issuer.ParseAccess(fresh.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "test-user-id", userID)

	_, err = issuer.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
