package domain

import "time"

// AuthMethod identifies which credential resolved the request identity.
type AuthMethod string

const (
	AuthMethodSession AuthMethod = "session"
	AuthMethodAPIKey  AuthMethod = "api_key"
)

// APIKey is a long-lived programmatic credential owned by exactly one user.
// Only the SHA-256 digest of the secret is stored; the raw value is shown
// once, at creation time.
type APIKey struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"userId"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"keyPrefix"` // First 8 chars of the raw secret, for identification
	Active     bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"` // nil means the key never expires
}

// Expired reports whether the key's expiry has elapsed. A nil ExpiresAt never
// expires. Expiry is a computed state, not a stored one.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

// Usable reports whether the key may authenticate a request: it must be
// active and not expired.
func (k *APIKey) Usable(now time.Time) bool {
	return k.Active && !k.Expired(now)
}
