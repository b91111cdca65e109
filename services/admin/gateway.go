package admin

import (
	"context"

	"github.com/okwaro/sokopesa/internal/pkg/models"
)

// AdminGW defines the gateway operations for marketplace administration
type AdminGW interface {
	ListTransactions(ctx context.Context, state string) ([]models.TransactionDetail, error)
	ListListings(ctx context.Context, state string) ([]models.Listing, error)
	ReleaseFunds(ctx context.Context, transactionID int64) (*models.TransactionDetail, error)
	RefundTransaction(ctx context.Context, transactionID int64) (*models.TransactionDetail, error)
	ApproveListing(ctx context.Context, listingID int64) (*models.Listing, error)
	RejectListing(ctx context.Context, listingID int64, reason string) (*models.Listing, error)
}
