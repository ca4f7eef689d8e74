package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MintInput describes a token to mint. Used by the token CLI command and by
// tests; the server itself never issues credentials.
type MintInput struct {
	Subject  int64
	Roles    []string
	Issuer   string
	Audience string
	// RoleClaim defaults to DefaultRoleClaim.
	RoleClaim string
	// TTL of zero mints a token without an exp claim, matching the observed
	// behavior of the companion identity service's long-lived test tokens.
	TTL time.Duration
}

// Mint signs an HS256 token carrying the given subject and role claims.
func Mint(in MintInput, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("auth: signing secret is required")
	}
	if in.RoleClaim == "" {
		in.RoleClaim = DefaultRoleClaim
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(in.Subject, 10),
		"iss": in.Issuer,
		"aud": in.Audience,
		"iat": jwt.NewNumericDate(now),
	}
	if len(in.Roles) == 1 {
		claims[in.RoleClaim] = in.Roles[0]
	} else if len(in.Roles) > 1 {
		claims[in.RoleClaim] = in.Roles
	}
	if in.TTL > 0 {
		claims["exp"] = jwt.NewNumericDate(now.Add(in.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
