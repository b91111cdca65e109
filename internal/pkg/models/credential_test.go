package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentialRevealWindow(t *testing.T) {
	revealed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defaults when remote omits the window", func(t *testing.T) {
		c := &CredentialReveal{RevealedAt: revealed}
		assert.Equal(t, 5*time.Minute, c.Window())
		assert.Equal(t, revealed.Add(5*time.Minute), c.ExpiresAt())
	})

	t.Run("remote window wins", func(t *testing.T) {
		c := &CredentialReveal{RevealedAt: revealed, SelfDestructMinutes: 10}
		assert.Equal(t, 10*time.Minute, c.Window())
	})

	t.Run("expiry is exclusive of the boundary", func(t *testing.T) {
		c := &CredentialReveal{RevealedAt: revealed}
		assert.False(t, c.Expired(revealed.Add(5*time.Minute)))
		assert.True(t, c.Expired(revealed.Add(5*time.Minute+time.Second)))
	})
}

func TestCredentialRevealRedaction(t *testing.T) {
	c := CredentialReveal{Username: "seller@example.com", Password: "hunter2", TwoFASecret: "JBSWY3DP"}

	rendered := fmt.Sprintf("%v %s", c, c.String())
	assert.NotContains(t, rendered, "hunter2")
	assert.NotContains(t, rendered, "JBSWY3DP")
	assert.Contains(t, rendered, "redacted")
}
