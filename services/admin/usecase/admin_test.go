package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminGW struct {
	transactions     []models.TransactionDetail
	transactionCalls int
	lastStateFilter  string

	listings []models.Listing

	releaseResp *models.TransactionDetail
	releaseErr  error
	refundResp  *models.TransactionDetail
	refundErr   error

	approveResp *models.Listing
	rejectResp  *models.Listing
	rejectErr   error
}

func (f *fakeAdminGW) ListTransactions(ctx context.Context, state string) ([]models.TransactionDetail, error) {
	f.transactionCalls++
	f.lastStateFilter = state
	return f.transactions, nil
}

func (f *fakeAdminGW) ListListings(ctx context.Context, state string) ([]models.Listing, error) {
	return f.listings, nil
}

func (f *fakeAdminGW) ReleaseFunds(ctx context.Context, transactionID int64) (*models.TransactionDetail, error) {
	return f.releaseResp, f.releaseErr
}

func (f *fakeAdminGW) RefundTransaction(ctx context.Context, transactionID int64) (*models.TransactionDetail, error) {
	return f.refundResp, f.refundErr
}

func (f *fakeAdminGW) ApproveListing(ctx context.Context, listingID int64) (*models.Listing, error) {
	return f.approveResp, nil
}

func (f *fakeAdminGW) RejectListing(ctx context.Context, listingID int64, reason string) (*models.Listing, error) {
	return f.rejectResp, f.rejectErr
}

func newTestAdminUC(t *testing.T, gw *fakeAdminGW) (*AdminUC, *cache.Coordinator, *notify.Dispatcher) {
	t.Helper()
	coord := cache.NewCoordinator(cache.NewMemoryStore(), 0)
	dispatcher := notify.NewDispatcher()
	controller := mutation.NewController(coord, dispatcher, logger.L())
	uc := NewAdminUC(gw, controller, coord, logger.L()).(*AdminUC)
	return uc, coord, dispatcher
}

func disputedFixture(id int64) models.TransactionDetail {
	now := time.Now()
	heldAt := now.Add(-time.Hour)
	return models.TransactionDetail{
		Transaction: models.Transaction{
			ID:          id,
			State:       models.TransactionDisputed,
			Amount:      5000,
			FundsHeldAt: &heldAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func TestAdminTransactionsFilterValidation(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAdminGW{}
	uc, _, _ := newTestAdminUC(t, gw)

	_, err := uc.Transactions(ctx, "cancelled")
	require.Error(t, err)
	assert.Zero(t, gw.transactionCalls, "an unknown filter must never reach the remote")

	_, err = uc.Transactions(ctx, "disputed")
	require.NoError(t, err)
	assert.Equal(t, "disputed", gw.lastStateFilter)
}

func TestAdminTransactionsReadThrough(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAdminGW{transactions: []models.TransactionDetail{disputedFixture(101)}}
	uc, _, _ := newTestAdminUC(t, gw)

	first, err := uc.Transactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, gw.transactionCalls)

	_, err = uc.Transactions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.transactionCalls, "second read is served from the cache")

	// Different filters are cached independently.
	_, err = uc.Transactions(ctx, "disputed")
	require.NoError(t, err)
	assert.Equal(t, 2, gw.transactionCalls)
}

func TestAdminListingsFilterValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestAdminUC(t, &fakeAdminGW{})

	_, err := uc.Listings(ctx, "published")
	assert.Error(t, err)

	_, err = uc.Listings(ctx, "under_review")
	assert.NoError(t, err)
}

func TestAdminReleaseFunds(t *testing.T) {
	ctx := context.Background()
	resolved := disputedFixture(101)
	resolved.State = models.TransactionCompleted
	gw := &fakeAdminGW{releaseResp: &resolved}
	uc, coord, dispatcher := newTestAdminUC(t, gw)

	// Prime both the admin table and a buyer view; both must go stale.
	require.NoError(t, coord.Write(ctx, cache.AdminTransactionsKey("disputed"), []int{1}))
	require.NoError(t, coord.Write(ctx, cache.TransactionDetailKey(101), 1))

	out := uc.ReleaseFunds(ctx, 101)
	require.True(t, out.OK())
	assert.Equal(t, "Funds released to seller.", dispatcher.List()[0].Message)

	var stale interface{}
	ok, err := coord.Read(ctx, cache.AdminTransactionsKey("disputed"), &stale)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = coord.Read(ctx, cache.TransactionDetailKey(101), &stale)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminRefundFailureSurfacesDetail(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAdminGW{refundErr: &remote.Failure{Class: remote.ClassClientError, Status: 409, Detail: "Transaction is not refundable"}}
	uc, _, dispatcher := newTestAdminUC(t, gw)

	out := uc.RefundTransaction(ctx, 101)
	require.False(t, out.OK())
	assert.Equal(t, mutation.KindClient, out.Failure.Kind)
	assert.Equal(t, "Transaction is not refundable", dispatcher.List()[0].Message)
}

func TestAdminRejectListingRequiresReason(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAdminGW{rejectResp: &models.Listing{ID: 42, State: models.ListingDraft}}
	uc, _, _ := newTestAdminUC(t, gw)

	out := uc.RejectListing(ctx, 42, "")
	require.False(t, out.OK())
	assert.Equal(t, mutation.KindValidation, out.Failure.Kind)

	out = uc.RejectListing(ctx, 42, "Earnings screenshot does not match the claim")
	require.True(t, out.OK())
	listing, ok := out.Payload.(*models.Listing)
	require.True(t, ok)
	assert.Equal(t, models.ListingDraft, listing.State)
}
