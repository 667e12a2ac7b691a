package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenBytes = 32

// Settings is the immutable signing configuration injected into the
// issuer at construction.
type Settings struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	settings Settings
}

func NewIssuer(s Settings) *Issuer {
	return &Issuer{settings: s}
}

// IssueAccess mints a signed HS256 access token carrying the caller's
// identity and role. The token is a bearer credential: there is no
// revocation before its natural expiry.
func (i *Issuer) IssueAccess(username, role string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(i.settings.AccessTTL)
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    i.settings.Issuer,
			Audience:  jwt.ClaimStrings{i.settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.settings.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess verifies signature, expiry, issuer and audience.
func (i *Issuer) ParseAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.settings.Secret, nil
	}, jwt.WithIssuer(i.settings.Issuer), jwt.WithAudience(i.settings.Audience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}

// NewRefreshToken returns an opaque high-entropy capability value. It
// carries no claims; validity is decided by the stored copy.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
