package models

// Wire DTOs for the marketplace API.

// PurchaseInitiateRequest starts the escrow flow for a listing
type PurchaseInitiateRequest struct {
	ListingID int64 `json:"listing_id"`
}

// PurchaseInitiateResponse carries the transaction created for the purchase
type PurchaseInitiateResponse struct {
	TransactionID int64  `json:"transaction_id"`
	PaymentURL    string `json:"payment_url,omitempty"`
}

// ContractSignRequest records the buyer's typed signature
type ContractSignRequest struct {
	FullName string `json:"full_name"`
}

// CredentialRevealRequest re-authenticates the buyer before the one-time
// credential release
type CredentialRevealRequest struct {
	UserPassword string `json:"user_password"`
}

// AccessConfirmRequest acknowledges the buyer has verified account access
type AccessConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// AccessConfirmResponse returns the completed transaction with the
// user-facing confirmation message
type AccessConfirmResponse struct {
	Transaction TransactionDetail `json:"transaction"`
	Message     string            `json:"message"`
}

// ListingRejectRequest sends a listing back to draft with a reason
type ListingRejectRequest struct {
	Reason string `json:"reason"`
}
