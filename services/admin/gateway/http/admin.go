package gateway_http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
)

// AdminGateway implements the administration operations over the
// marketplace HTTP API
type AdminGateway struct {
	client remote.Gateway
}

// NewAdminGateway creates a gateway over the given remote client
func NewAdminGateway(client remote.Gateway) *AdminGateway {
	return &AdminGateway{client: client}
}

// ListTransactions fetches transactions, optionally filtered by state
func (g *AdminGateway) ListTransactions(ctx context.Context, state string) ([]models.TransactionDetail, error) {
	path := "/admin/transactions"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}
	var out []models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodGet, path, nil, &out); f != nil {
		return nil, f
	}
	return out, nil
}

// ListListings fetches the moderation queue, optionally filtered by state
func (g *AdminGateway) ListListings(ctx context.Context, state string) ([]models.Listing, error) {
	path := "/admin/listings"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}
	var out []models.Listing
	if f := g.client.Request(ctx, http.MethodGet, path, nil, &out); f != nil {
		return nil, f
	}
	return out, nil
}

// ReleaseFunds resolves a dispute in the seller's favor
func (g *AdminGateway) ReleaseFunds(ctx context.Context, transactionID int64) (*models.TransactionDetail, error) {
	var out models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/admin/transactions/%d/release", transactionID), nil, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// RefundTransaction returns escrowed funds to the buyer
func (g *AdminGateway) RefundTransaction(ctx context.Context, transactionID int64) (*models.TransactionDetail, error) {
	var out models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/admin/transactions/%d/refund", transactionID), nil, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// ApproveListing moves a listing out of review into the catalog
func (g *AdminGateway) ApproveListing(ctx context.Context, listingID int64) (*models.Listing, error) {
	var out models.Listing
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/admin/listings/%d/approve", listingID), nil, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// RejectListing loops a listing back to draft with a reason
func (g *AdminGateway) RejectListing(ctx context.Context, listingID int64, reason string) (*models.Listing, error) {
	req := models.ListingRejectRequest{Reason: reason}
	var out models.Listing
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/admin/listings/%d/reject", listingID), req, &out); f != nil {
		return nil, f
	}
	return &out, nil
}
