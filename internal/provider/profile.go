package provider

import (
	"strings"

	"github.com/ghdash/internal/domain"
)

// Profile is the provider's view of a user before normalization.
// Emails and Photos may hold several values, in preference order.
type Profile struct {
	ID          string
	Login       string
	DisplayName string
	Emails      []string
	Photos      []string
}

func (p *Profile) addEmail(email string) {
	p.Emails = appendUnique(p.Emails, email)
}

func (p *Profile) addPhoto(url string) {
	p.Photos = appendUnique(p.Photos, url)
}

// Normalize converts the profile into an identity carrying the delegated token.
// The first available email and photo win; the display name falls back to the login.
func (p *Profile) Normalize(accessToken string) *domain.Identity {
	identity := &domain.Identity{
		ExternalID:  p.ID,
		Login:       p.Login,
		DisplayName: strings.TrimSpace(p.DisplayName),
		Email:       firstNonEmpty(p.Emails),
		AvatarURL:   firstNonEmpty(p.Photos),
		AccessToken: accessToken,
	}
	if identity.DisplayName == "" {
		identity.DisplayName = identity.Login
	}
	return identity
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func appendUnique(values []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return values
	}
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return values
		}
	}
	return append(values, v)
}
