package domain

// Identity is the normalized GitHub user produced by a completed OAuth
// handshake. It is rebuilt on every callback and never stored server-side.
type Identity struct {
	ExternalID  string
	Login       string
	DisplayName string
	Email       string
	AvatarURL   string
	AccessToken string // delegated GitHub token; never serialized
}

// Validate rejects partial identities. ExternalID and AccessToken are both required.
func (i *Identity) Validate() error {
	if i == nil {
		return WrapInvalidIdentity("identity")
	}
	if i.ExternalID == "" {
		return WrapInvalidIdentity("external id")
	}
	if i.AccessToken == "" {
		return WrapInvalidIdentity("access token")
	}
	return nil
}

// Name returns the display name, falling back to the login handle
func (i *Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Login
}
