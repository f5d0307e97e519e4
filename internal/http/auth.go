package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ghdash/internal/constants"
	"github.com/ghdash/internal/domain"
	"github.com/ghdash/internal/session"
)

const claimsKey = "claims"

// UserResponse is the profile returned by /api/auth/me. Absent fields are null.
type UserResponse struct {
	Login     string  `json:"login"`
	AvatarURL *string `json:"avatar_url"`
	Email     *string `json:"email"`
	Name      *string `json:"name"`
}

// SignOutResponse is returned after the session cookie has been cleared
type SignOutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// login starts the GitHub OAuth flow
func (s *Server) login(c *gin.Context) {
	state := uuid.New().String()

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.OAuthStateCookieName,
		Value:    state,
		Path:     s.callbackPath,
		MaxAge:   int(constants.OAuthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	slog.DebugContext(c.Request.Context(), "redirecting to GitHub for authorization",
		"request_id", c.GetString(requestIDKey))
	c.Redirect(http.StatusTemporaryRedirect, s.provider.BeginAuthorization(state))
}

// callback completes the OAuth flow. The browser always ends up back on the
// frontend; only a fully successful exchange carries a session cookie.
func (s *Server) callback(c *gin.Context) {
	ctx := c.Request.Context()

	expectedState := ""
	if cookie, err := c.Request.Cookie(constants.OAuthStateCookieName); err == nil {
		expectedState = cookie.Value
	}
	s.clearStateCookie(c)

	params := domain.CallbackParams{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		ExpectedState:    expectedState,
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	}

	identity, err := s.provider.CompleteAuthorization(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "GitHub sign-in failed",
			"code", domain.Code(err),
			"request_id", c.GetString(requestIDKey),
			"error", err)
		c.Redirect(http.StatusTemporaryRedirect, s.frontendURL(constants.FrontendLoginPath, true))
		return
	}

	claims, err := s.issuer.Issue(c.Writer, identity)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue session",
			"login", identity.Login,
			"request_id", c.GetString(requestIDKey),
			"error", err)
		c.Redirect(http.StatusTemporaryRedirect, s.frontendURL(constants.FrontendLoginPath, true))
		return
	}

	slog.InfoContext(ctx, "user signed in",
		"login", claims.Login,
		"user_id", claims.Subject,
		"expires_at", claims.ExpiresAtTime())
	c.Redirect(http.StatusTemporaryRedirect, s.frontendURL(constants.FrontendLandingPath, false))
}

// getCurrentUser returns the profile carried by the session token
func (s *Server) getCurrentUser(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse(domain.ErrUnauthenticated))
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Login:     claims.Login,
		AvatarURL: nullable(claims.AvatarURL),
		Email:     nullable(claims.Email),
		Name:      nullable(claims.Name),
	})
}

// signOut clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation list.
func (s *Server) signOut(c *gin.Context) {
	s.issuer.Revoke(c.Writer)

	c.JSON(http.StatusOK, SignOutResponse{
		Success: true,
		Message: "User signed out successfully",
	})
}

func (s *Server) clearStateCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.OAuthStateCookieName,
		Value:    "",
		Path:     s.callbackPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// frontendURL builds a redirect target on the configured frontend
func (s *Server) frontendURL(path string, failed bool) string {
	target := strings.TrimSuffix(s.config.FrontendURL, "/") + path
	if failed {
		target += "?" + url.Values{"error": {constants.LoginErrorParam}}.Encode()
	}
	return target
}

// getClaims extracts the verified session claims stored by requireAuth
func getClaims(c *gin.Context) (*session.Claims, bool) {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*session.Claims); ok {
			return claims, true
		}
	}
	return session.FromContext(c.Request.Context())
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
