package admin

import (
	"context"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
)

// AdminUC defines the marketplace administration use cases. State filters
// are validated against the known state sets and fail closed.
type AdminUC interface {
	Transactions(ctx context.Context, stateFilter string) ([]models.TransactionDetail, error)
	Listings(ctx context.Context, stateFilter string) ([]models.Listing, error)
	ReleaseFunds(ctx context.Context, transactionID int64) mutation.Outcome
	RefundTransaction(ctx context.Context, transactionID int64) mutation.Outcome
	ApproveListing(ctx context.Context, listingID int64) mutation.Outcome
	RejectListing(ctx context.Context, listingID int64, reason string) mutation.Outcome
}
