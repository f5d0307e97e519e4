package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
)

// ErrEmptySecret is returned when the signing secret is not configured
var ErrEmptySecret = errors.New("session signing secret is empty")

// Secret is the HMAC key shared by the Issuer and the Gate.
// It is loaded once at startup and never mutated.
type Secret []byte

// Option customizes an Issuer or a Gate
type Option func(*settings)

type settings struct {
	now func() time.Time
}

// WithClock overrides the time source, used by tests to move through token lifetimes
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func applyOptions(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Issuer mints session tokens and writes them as cookies
type Issuer struct {
	secret Secret
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. secure marks the cookie Secure and should be
// true in production only.
func NewIssuer(secret Secret, secure bool, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := applyOptions(opts)
	return &Issuer{
		secret: secret,
		secure: secure,
		ttl:    constants.SessionTTL,
		now:    s.now,
	}, nil
}

// Sign validates the identity and returns a signed token with its claims.
// A partial identity never gets a token.
func (i *Issuer) Sign(identity *domain.Identity) (string, *Claims, error) {
	if err := identity.Validate(); err != nil {
		return "", nil, err
	}

	claims := newClaims(identity, i.now(), i.ttl, constants.SessionIssuer)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, claims, nil
}

// Issue signs a token for identity and sets it as the session cookie,
// replacing any previous one. Nothing is written to w on error.
func (i *Issuer) Issue(w http.ResponseWriter, identity *domain.Identity) (*Claims, error) {
	token, claims, err := i.Sign(identity)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(i.ttl.Seconds()),
		Expires:  claims.ExpiresAtTime(),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return claims, nil
}

// Revoke clears the session cookie in the browser. A copy of the token
// held elsewhere stays valid until it expires.
func (i *Issuer) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
