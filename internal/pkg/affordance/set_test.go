package affordance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetKeysTrackersIndependently(t *testing.T) {
	s := NewSet()

	assert.Equal(t, StateIdle, s.State("transaction:101"), "unknown keys are idle")

	s.Get("transaction:101").SetLoading()
	assert.Equal(t, StateLoading, s.State("transaction:101"))
	assert.Equal(t, StateIdle, s.State("transaction:102"), "keys do not share state")

	// Get returns the same tracker for the same key.
	s.Get("transaction:101").SetSuccess()
	assert.Equal(t, StateSuccess, s.State("transaction:101"))
}
