package models

import "time"

// DefaultSelfDestructMinutes bounds how long revealed credentials may be
// held in memory before the client must purge them.
const DefaultSelfDestructMinutes = 5

// CredentialReveal is the ephemeral payload returned exactly once per
// transaction. It must never be written to the cache and never logged.
type CredentialReveal struct {
	Username            string    `json:"username"`
	Password            string    `json:"password"`
	RecoveryEmail       string    `json:"recovery_email,omitempty"`
	TwoFASecret         string    `json:"two_fa_secret,omitempty"`
	RevealedAt          time.Time `json:"revealed_at"`
	Warning             string    `json:"warning,omitempty"`
	SelfDestructMinutes int       `json:"self_destruct_minutes,omitempty"`
}

// Window returns the self-destruct duration, defaulting when the remote
// omitted one.
func (c *CredentialReveal) Window() time.Duration {
	minutes := c.SelfDestructMinutes
	if minutes <= 0 {
		minutes = DefaultSelfDestructMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// ExpiresAt returns the instant after which the payload must be treated as
// expired and purged.
func (c *CredentialReveal) ExpiresAt() time.Time {
	return c.RevealedAt.Add(c.Window())
}

// Expired reports whether the self-destruct window has passed at now.
func (c *CredentialReveal) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt())
}

// String keeps the secret material out of logs and format verbs.
func (c CredentialReveal) String() string {
	return "CredentialReveal(redacted)"
}
