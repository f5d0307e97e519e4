package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
)

var (
	errNoToken         = errors.New("no session token")
	errExpired         = errors.New("session token expired")
	errIncompleteToken = errors.New("session token lacks subject or access token")
)

// Gate verifies session tokens on protected requests. Verification is a
// pure function of token, secret and clock; it never calls GitHub.
type Gate struct {
	secret Secret
	parser *jwt.Parser
	now    func() time.Time
}

// NewGate creates a Gate that accepts tokens signed with secret
func NewGate(secret Secret, opts ...Option) (*Gate, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := applyOptions(opts)
	return &Gate{
		secret: secret,
		// Expiry is checked against the gate clock below, not jwt.TimeFunc
		parser: &jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: true,
		},
		now: s.now,
	}, nil
}

// Authenticate extracts and verifies the session token of r.
// Every failure is reported as ErrUnauthenticated; the cause is only in the wrapped error.
func (g *Gate) Authenticate(r *http.Request) (*Claims, error) {
	token := extractToken(r)
	if token == "" {
		return nil, domain.WrapUnauthenticated(errNoToken)
	}
	return g.Verify(token)
}

// Verify checks signature and expiry of a raw token
func (g *Gate) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := g.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(g.secret), nil
	})
	if err != nil {
		return nil, domain.WrapUnauthenticated(err)
	}
	if !parsed.Valid {
		return nil, domain.WrapUnauthenticated(errors.New("invalid session token"))
	}

	if !claims.VerifyExpiresAt(g.now().Unix(), true) {
		return nil, domain.WrapUnauthenticated(errExpired)
	}
	if claims.Subject == "" || claims.AccessToken == "" {
		return nil, domain.WrapUnauthenticated(errIncompleteToken)
	}

	return claims, nil
}

// extractToken reads the session cookie, falling back to a Bearer header for API clients
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
