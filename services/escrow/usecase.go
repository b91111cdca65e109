package escrow

import (
	"context"

	"github.com/okwaro/sokopesa/internal/pkg/affordance"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
)

// EscrowUC defines the buyer-facing escrow use cases. Mutating operations
// return a typed outcome; the controller has already applied rollback and
// surfaced notifications by the time an outcome is returned. The two state
// accessors expose the per-action affordance driving button rendering.
type EscrowUC interface {
	InitiatePurchase(ctx context.Context, listingID int64) mutation.Outcome
	MyPurchases(ctx context.Context) ([]models.TransactionDetail, error)
	Transaction(ctx context.Context, id int64) (*models.TransactionDetail, error)
	SignContract(ctx context.Context, transactionID, contractID int64, fullName string) mutation.Outcome
	RevealCredentials(ctx context.Context, transactionID int64, userPassword string) mutation.Outcome
	ConfirmAccess(ctx context.Context, transactionID int64) mutation.Outcome
	Credentials(transactionID int64) (*models.CredentialReveal, bool)
	RecordConfirmation(ctx context.Context, transactionID int64, create *models.BuyerConfirmationCreate) (*models.BuyerConfirmation, error)
	Confirmations(transactionID int64) []models.BuyerConfirmation
	PurchaseState(listingID int64) affordance.State
	ActionState(transactionID int64) affordance.State
}
