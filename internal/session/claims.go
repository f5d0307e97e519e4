// Package session issues and verifies the stateless session token that
// carries a signed-in GitHub identity between requests.
//
// The token is an HS256 JWT held by the browser in the access_token cookie.
// There is no server-side session table: a token is valid exactly when its
// signature checks out under the process secret and it has not expired.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/ghdash/internal/domain"
)

// Claims is the claim set of a session token
type Claims struct {
	jwt.StandardClaims
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AccessToken string `json:"access_token"`
}

func newClaims(identity *domain.Identity, issuedAt time.Time, ttl time.Duration, issuer string) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.ExternalID,
			Issuer:    issuer,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(ttl).Unix(),
		},
		Login:       identity.Login,
		Name:        identity.Name(),
		Email:       identity.Email,
		AvatarURL:   identity.AvatarURL,
		AccessToken: identity.AccessToken,
	}
}

// Identity rebuilds the identity the token was issued for
func (c *Claims) Identity() *domain.Identity {
	return &domain.Identity{
		ExternalID:  c.Subject,
		Login:       c.Login,
		DisplayName: c.Name,
		Email:       c.Email,
		AvatarURL:   c.AvatarURL,
		AccessToken: c.AccessToken,
	}
}

// ExpiresAtTime returns the expiry as a time.Time
func (c *Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

type contextKey struct{}

// WithClaims returns a copy of ctx carrying the authenticated claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the claims the gate attached to the request context
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}
