package models

import (
	"fmt"
	"time"
)

// ListingState represents the moderation lifecycle of a seller listing
type ListingState string

const (
	ListingDraft       ListingState = "draft"
	ListingUnderReview ListingState = "under_review"
	ListingApproved    ListingState = "approved"
	ListingReserved    ListingState = "reserved"
	ListingSold        ListingState = "sold"
)

// Rejection loops a listing back to draft; everything else moves forward.
var listingTransitions = map[ListingState][]ListingState{
	ListingDraft:       {ListingUnderReview},
	ListingUnderReview: {ListingApproved, ListingDraft},
	ListingApproved:    {ListingReserved},
	ListingReserved:    {ListingSold},
	ListingSold:        {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s ListingState) CanTransitionTo(next ListingState) bool {
	for _, allowed := range listingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known listing state.
func (s ListingState) Valid() bool {
	_, ok := listingTransitions[s]
	return ok
}

// ParseListingState converts a raw filter value into a ListingState,
// failing closed on unknown values.
func ParseListingState(raw string) (ListingState, error) {
	s := ListingState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown listing state: %q", raw)
	}
	return s, nil
}

// Listing is the item under transaction. Prices and earnings are in minor
// currency units (cents).
type Listing struct {
	ID              int64        `json:"id"`
	SellerID        int64        `json:"seller_id"`
	Title           string       `json:"title"`
	Category        string       `json:"category"`
	Platform        string       `json:"platform"`
	Price           int64        `json:"price"`
	Description     string       `json:"description,omitempty"`
	State           ListingState `json:"state"`
	MonthlyEarnings *int64       `json:"monthly_earnings"`
	AccountAge      *int         `json:"account_age_months"`
	Rating          string       `json:"rating,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
