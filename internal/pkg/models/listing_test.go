package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ListingState
		to      ListingState
		allowed bool
	}{
		{"draft to under_review", ListingDraft, ListingUnderReview, true},
		{"under_review to approved", ListingUnderReview, ListingApproved, true},
		{"rejection loops back to draft", ListingUnderReview, ListingDraft, true},
		{"approved to reserved", ListingApproved, ListingReserved, true},
		{"reserved to sold", ListingReserved, ListingSold, true},

		{"no publishing a draft directly", ListingDraft, ListingApproved, false},
		{"no un-approving", ListingApproved, ListingDraft, false},
		{"sold is terminal", ListingSold, ListingApproved, false},
		{"no self loop", ListingDraft, ListingDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseListingState(t *testing.T) {
	state, err := ParseListingState("under_review")
	require.NoError(t, err)
	assert.Equal(t, ListingUnderReview, state)

	_, err = ParseListingState("published")
	assert.Error(t, err)
}
