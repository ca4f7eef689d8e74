package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orderhub/orderhub/internal/apperr"
)

// DefaultRoleClaim is the claim key the companion identity service writes
// role values under.
const DefaultRoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// Config holds the credential verification settings. The signing secret is
// loaded once at startup and injected here; it is never read from ambient
// state.
type Config struct {
	// Secret is the shared HS256 signing key. Required.
	Secret string
	// Issuer and Audience must match the token claims exactly.
	Issuer   string
	Audience string
	// RoleClaim is the claim key carrying the raw role value (a string or a
	// list of strings). Defaults to DefaultRoleClaim.
	RoleClaim string
	// RequireExpiry additionally demands a future exp claim. Off by default:
	// the original contract validates only signature, issuer, and audience,
	// and that limitation is carried forward deliberately.
	RequireExpiry bool
}

// Validator verifies bearer credentials and extracts caller identities.
type Validator struct {
	cfg    Config
	secret []byte
	now    func() time.Time
}

// NewValidator creates a Validator from cfg.
func NewValidator(cfg Config) (*Validator, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = DefaultRoleClaim
	}
	return &Validator{cfg: cfg, secret: []byte(cfg.Secret), now: time.Now}, nil
}

// Validate verifies a bearer credential (scheme prefix already stripped) and
// returns the caller's Identity. It is a pure function of the token and the
// configured key: signature, issuer, and audience are checked, the subject
// must parse as an integer, and the role claim is normalized into grants.
// Every failure is an UNAUTHENTICATED error.
func (v *Validator) Validate(rawCredential string) (Identity, error) {
	rawCredential = strings.TrimSpace(rawCredential)
	if rawCredential == "" {
		return Identity{}, apperr.New(apperr.KindUnauthenticated, "credential is empty")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawCredential, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return Identity{}, apperr.Newf(apperr.KindUnauthenticated, "invalid credential: %v", err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != v.cfg.Issuer {
		return Identity{}, apperr.New(apperr.KindUnauthenticated, "issuer mismatch")
	}
	audience, err := claims.GetAudience()
	if err != nil || !containsAudience(audience, v.cfg.Audience) {
		return Identity{}, apperr.New(apperr.KindUnauthenticated, "audience mismatch")
	}

	if v.cfg.RequireExpiry {
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return Identity{}, apperr.New(apperr.KindUnauthenticated, "expiry claim is required")
		}
		if !exp.After(v.now()) {
			return Identity{}, apperr.New(apperr.KindUnauthenticated, "credential expired")
		}
	}

	subjectClaim, err := claims.GetSubject()
	if err != nil {
		return Identity{}, apperr.New(apperr.KindUnauthenticated, "subject claim is missing")
	}
	subject, err := strconv.ParseInt(subjectClaim, 10, 64)
	if err != nil {
		return Identity{}, apperr.Newf(apperr.KindUnauthenticated, "subject %q is not numeric", subjectClaim)
	}

	return Identity{
		Subject:       subject,
		Grants:        ParseGrants(rawRoleValues(claims[v.cfg.RoleClaim])),
		Authenticated: true,
	}, nil
}

// rawRoleValues normalizes the role claim, which arrives as a single string,
// an ordered sequence of strings, or not at all.
func rawRoleValues(value any) []string {
	switch roles := value.(type) {
	case string:
		return []string{roles}
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return roles
	default:
		return nil
	}
}

func containsAudience(audience jwt.ClaimStrings, want string) bool {
	for _, a := range audience {
		if a == want {
			return true
		}
	}
	return false
}
