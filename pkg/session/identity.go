package session

// Identity is the normalized signed-in principal, independent of the auth
// backend's native user object. It is replaced wholesale on every auth event,
// never partially updated.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// SessionState is the tri-state auth status. Unknown exists only before the
// first listener callback; once left it is never re-entered.
type SessionState int

const (
	StateUnknown SessionState = iota
	StateAnonymous
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionStatus pairs the state with the identity when authenticated.
type SessionStatus struct {
	State    SessionState
	Identity *Identity
}

// UserID returns the authenticated user id, or "" when not authenticated.
func (s SessionStatus) UserID() string {
	if s.State == StateAuthenticated && s.Identity != nil {
		return s.Identity.ID
	}
	return ""
}

func identityEqual(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
