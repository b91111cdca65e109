package gateway_http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
)

// EscrowGateway implements the buyer escrow operations over the
// marketplace HTTP API
type EscrowGateway struct {
	client remote.Gateway
}

// NewEscrowGateway creates a gateway over the given remote client
func NewEscrowGateway(client remote.Gateway) *EscrowGateway {
	return &EscrowGateway{client: client}
}

// InitiatePurchase starts the escrow flow for a listing
func (g *EscrowGateway) InitiatePurchase(ctx context.Context, listingID int64) (*models.PurchaseInitiateResponse, error) {
	req := models.PurchaseInitiateRequest{ListingID: listingID}
	var resp models.PurchaseInitiateResponse
	if f := g.client.Request(ctx, http.MethodPost, "/buyer/purchase/initiate", req, &resp); f != nil {
		return nil, f
	}
	return &resp, nil
}

// ListPurchases fetches the buyer's transactions
func (g *EscrowGateway) ListPurchases(ctx context.Context) ([]models.TransactionDetail, error) {
	var out []models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodGet, "/buyer/transactions", nil, &out); f != nil {
		return nil, f
	}
	return out, nil
}

// GetTransaction fetches one transaction detail view
func (g *EscrowGateway) GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	var out models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// SignContract records the buyer's typed signature on a contract
func (g *EscrowGateway) SignContract(ctx context.Context, contractID int64, fullName string) (*models.TransactionDetail, error) {
	req := models.ContractSignRequest{FullName: fullName}
	var out models.TransactionDetail
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/contracts/%d/sign", contractID), req, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// RevealCredentials performs the one-time credential release. The payload
// is ephemeral and must never reach the cache or the logs.
func (g *EscrowGateway) RevealCredentials(ctx context.Context, transactionID int64, userPassword string) (*models.CredentialReveal, error) {
	req := models.CredentialRevealRequest{UserPassword: userPassword}
	var out models.CredentialReveal
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/transactions/%d/reveal", transactionID), req, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// ConfirmAccess acknowledges verified access, releasing escrowed funds
func (g *EscrowGateway) ConfirmAccess(ctx context.Context, transactionID int64) (*models.AccessConfirmResponse, error) {
	req := models.AccessConfirmRequest{Confirmed: true}
	var out models.AccessConfirmResponse
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/transactions/%d/confirm-access", transactionID), req, &out); f != nil {
		return nil, f
	}
	return &out, nil
}

// CreateConfirmation appends one buyer acknowledgment audit record
func (g *EscrowGateway) CreateConfirmation(ctx context.Context, transactionID int64, create *models.BuyerConfirmationCreate) (*models.BuyerConfirmation, error) {
	var out models.BuyerConfirmation
	if f := g.client.Request(ctx, http.MethodPost, fmt.Sprintf("/transactions/%d/confirmations", transactionID), create, &out); f != nil {
		return nil, f
	}
	return &out, nil
}
