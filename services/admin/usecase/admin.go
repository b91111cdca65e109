package usecase

import (
	"context"
	"fmt"

	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/okwaro/sokopesa/services/admin"
	"github.com/sirupsen/logrus"
)

// AdminUC implements the admin.AdminUC interface
type AdminUC struct {
	gw         admin.AdminGW
	controller *mutation.Controller
	cache      *cache.Coordinator
	log        *logrus.Entry
}

// NewAdminUC creates the administration use case
func NewAdminUC(gw admin.AdminGW, controller *mutation.Controller, c *cache.Coordinator, log *logger.AppLogger) admin.AdminUC {
	return &AdminUC{
		gw:         gw,
		controller: controller,
		cache:      c,
		log:        log.WithComponent("admin_usecase"),
	}
}

// Transactions lists transactions for the admin table, read through the
// cache. An unknown state filter is rejected before any request is made.
func (uc *AdminUC) Transactions(ctx context.Context, stateFilter string) ([]models.TransactionDetail, error) {
	if stateFilter != "" {
		if _, err := models.ParseTransactionState(stateFilter); err != nil {
			return nil, err
		}
	}

	key := cache.AdminTransactionsKey(stateFilter)
	var cached []models.TransactionDetail
	if ok, err := uc.cache.Read(ctx, key, &cached); err != nil {
		uc.log.WithError(err).Warn("admin transaction cache read failed")
	} else if ok {
		return cached, nil
	}

	fresh, err := uc.gw.ListTransactions(ctx, stateFilter)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Write(ctx, key, fresh); err != nil {
		uc.log.WithError(err).Warn("admin transaction cache write failed")
	}
	return fresh, nil
}

// Listings lists the moderation queue, read through the cache.
func (uc *AdminUC) Listings(ctx context.Context, stateFilter string) ([]models.Listing, error) {
	if stateFilter != "" {
		if _, err := models.ParseListingState(stateFilter); err != nil {
			return nil, err
		}
	}

	key := cache.AdminListingsKey(stateFilter)
	var cached []models.Listing
	if ok, err := uc.cache.Read(ctx, key, &cached); err != nil {
		uc.log.WithError(err).Warn("admin listing cache read failed")
	} else if ok {
		return cached, nil
	}

	fresh, err := uc.gw.ListListings(ctx, stateFilter)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Write(ctx, key, fresh); err != nil {
		uc.log.WithError(err).Warn("admin listing cache write failed")
	}
	return fresh, nil
}

// ReleaseFunds resolves a transaction in the seller's favor. Admin actions
// are not applied optimistically; the tables refetch after invalidation.
func (uc *AdminUC) ReleaseFunds(ctx context.Context, transactionID int64) mutation.Outcome {
	return uc.controller.Mutate(ctx, mutation.Mutation{
		Key: fmt.Sprintf("admin:transaction:%d", transactionID),
		Request: func(ctx context.Context) (interface{}, error) {
			detail, err := uc.gw.ReleaseFunds(ctx, transactionID)
			if err != nil {
				return nil, err
			}
			return detail, nil
		},
		Invalidates:    []cache.Key{cache.AdminKey(), cache.TransactionsKey()},
		SuccessTitle:   "Funds released",
		SuccessMessage: "Funds released to seller.",
		ErrorTitle:     "Release failed",
		Fallback:       "Failed to release funds",
	})
}

// RefundTransaction returns escrowed funds to the buyer.
func (uc *AdminUC) RefundTransaction(ctx context.Context, transactionID int64) mutation.Outcome {
	return uc.controller.Mutate(ctx, mutation.Mutation{
		Key: fmt.Sprintf("admin:transaction:%d", transactionID),
		Request: func(ctx context.Context) (interface{}, error) {
			detail, err := uc.gw.RefundTransaction(ctx, transactionID)
			if err != nil {
				return nil, err
			}
			return detail, nil
		},
		Invalidates:    []cache.Key{cache.AdminKey(), cache.TransactionsKey()},
		SuccessTitle:   "Transaction refunded",
		SuccessMessage: "Funds returned to buyer.",
		ErrorTitle:     "Refund failed",
		Fallback:       "Failed to refund transaction",
	})
}

// ApproveListing moves a listing into the catalog.
func (uc *AdminUC) ApproveListing(ctx context.Context, listingID int64) mutation.Outcome {
	return uc.controller.Mutate(ctx, mutation.Mutation{
		Key: fmt.Sprintf("admin:listing:%d", listingID),
		Request: func(ctx context.Context) (interface{}, error) {
			listing, err := uc.gw.ApproveListing(ctx, listingID)
			if err != nil {
				return nil, err
			}
			return listing, nil
		},
		Invalidates:    []cache.Key{cache.AdminKey(), cache.CatalogKey()},
		SuccessTitle:   "Listing approved",
		SuccessMessage: "Listing approved and published.",
		ErrorTitle:     "Approval failed",
		Fallback:       "Failed to approve listing",
	})
}

// RejectListing loops a listing back to draft with a reason.
func (uc *AdminUC) RejectListing(ctx context.Context, listingID int64, reason string) mutation.Outcome {
	return uc.controller.Mutate(ctx, mutation.Mutation{
		Key: fmt.Sprintf("admin:listing:%d", listingID),
		Guard: func() error {
			if reason == "" {
				return fmt.Errorf("a rejection reason is required")
			}
			return nil
		},
		Request: func(ctx context.Context) (interface{}, error) {
			listing, err := uc.gw.RejectListing(ctx, listingID, reason)
			if err != nil {
				return nil, err
			}
			return listing, nil
		},
		Invalidates:    []cache.Key{cache.AdminKey(), cache.CatalogKey()},
		SuccessTitle:   "Listing rejected",
		SuccessMessage: "Listing returned to the seller as draft.",
		ErrorTitle:     "Rejection failed",
		Fallback:       "Failed to reject listing",
	})
}
