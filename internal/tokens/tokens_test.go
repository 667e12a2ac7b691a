package tokens

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		Secret:    []byte("test-jwt-secret"),
		Issuer:    "product-api-test",
		Audience:  "product-api-clients",
		AccessTTL: 15 * time.Minute,
	}
}

func TestIssuer_IssueAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSettings())

	token, exp, err := issuer.IssueAccess("alice", "User")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Second)

	claims, err := issuer.ParseAccess(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "User", claims.Role)
	assert.Equal(t, "product-api-test", claims.Issuer)
	assert.Contains(t, claims.Audience, "product-api-clients")
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_ParseAccess_RejectsExpired(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.AccessTTL = -time.Minute
	issuer := NewIssuer(s)

	token, _, err := issuer.IssueAccess("alice", "User")
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestIssuer_ParseAccess_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSettings())
	token, _, err := issuer.IssueAccess("alice", "User")
	require.NoError(t, err)

	other := testSettings()
	other.Secret = []byte("a-different-secret")

	claims, err := NewIssuer(other).ParseAccess(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestIssuer_ParseAccess_RejectsWrongIssuerAndAudience(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSettings())
	token, _, err := issuer.IssueAccess("alice", "User")
	require.NoError(t, err)

	wrongIss := testSettings()
	wrongIss.Issuer = "somebody-else"
	_, err = NewIssuer(wrongIss).ParseAccess(token)
	require.Error(t, err)

	wrongAud := testSettings()
	wrongAud.Audience = "somebody-else"
	_, err = NewIssuer(wrongAud).ParseAccess(token)
	require.Error(t, err)
}

func TestNewRefreshToken_OpaqueAndUnique(t *testing.T) {
	t.Parallel()

	tok1, err := NewRefreshToken()
	require.NoError(t, err)
	tok2, err := NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, tok1, tok2)

	raw, err := base64.StdEncoding.DecodeString(tok1)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
