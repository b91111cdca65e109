package escrow

import (
	"context"

	"github.com/okwaro/sokopesa/internal/pkg/models"
)

// EscrowGW defines the gateway operations against the marketplace system
// of record. Gateways translate wire failures into *remote.Failure values
// and never retry; transition validation belongs to the use case.
type EscrowGW interface {
	InitiatePurchase(ctx context.Context, listingID int64) (*models.PurchaseInitiateResponse, error)
	ListPurchases(ctx context.Context) ([]models.TransactionDetail, error)
	GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error)
	SignContract(ctx context.Context, contractID int64, fullName string) (*models.TransactionDetail, error)
	RevealCredentials(ctx context.Context, transactionID int64, userPassword string) (*models.CredentialReveal, error)
	ConfirmAccess(ctx context.Context, transactionID int64) (*models.AccessConfirmResponse, error)
	CreateConfirmation(ctx context.Context, transactionID int64, create *models.BuyerConfirmationCreate) (*models.BuyerConfirmation, error)
}
