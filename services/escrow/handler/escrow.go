package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	"github.com/okwaro/sokopesa/internal/utils"
)

// InitiatePurchase handles purchase initiation requests
func (h *EscrowHandler) InitiatePurchase(c echo.Context) error {
	var req models.PurchaseInitiateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if req.ListingID <= 0 {
		return utils.BadRequestResponse(c, "listing_id is required")
	}

	out := h.escrowUC.InitiatePurchase(c.Request().Context(), req.ListingID)
	return respondOutcome(c, out, http.StatusCreated)
}

// MyPurchases handles the buyer transaction list
func (h *EscrowHandler) MyPurchases(c echo.Context) error {
	purchases, err := h.escrowUC.MyPurchases(c.Request().Context())
	if err != nil {
		return respondGatewayError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", purchases)
}

// GetTransaction handles one transaction detail view
func (h *EscrowHandler) GetTransaction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}

	detail, err := h.escrowUC.Transaction(c.Request().Context(), id)
	if err != nil {
		return respondGatewayError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", detail)
}

// SignContract handles contract signature requests
func (h *EscrowHandler) SignContract(c echo.Context) error {
	contractID, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid contract id")
	}

	var req models.ContractSignRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if req.FullName == "" {
		return utils.BadRequestResponse(c, "full_name is required")
	}

	transactionID, err := strconv.ParseInt(c.QueryParam("transaction_id"), 10, 64)
	if err != nil || transactionID <= 0 {
		return utils.BadRequestResponse(c, "transaction_id is required")
	}

	out := h.escrowUC.SignContract(c.Request().Context(), transactionID, contractID, req.FullName)
	return respondOutcome(c, out, http.StatusOK)
}

// RevealCredentials handles the one-time credential release
func (h *EscrowHandler) RevealCredentials(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}

	var req models.CredentialRevealRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if req.UserPassword == "" {
		return utils.BadRequestResponse(c, "user_password is required")
	}

	out := h.escrowUC.RevealCredentials(c.Request().Context(), id, req.UserPassword)
	return respondOutcome(c, out, http.StatusOK)
}

// GetCredentials returns the vaulted reveal payload while its
// self-destruct window is open
func (h *EscrowHandler) GetCredentials(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}

	reveal, ok := h.escrowUC.Credentials(id)
	if !ok {
		return utils.NotFoundResponse(c, "Credentials expired or not revealed")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", reveal)
}

// ConfirmAccess handles buyer access confirmation, releasing escrow
func (h *EscrowHandler) ConfirmAccess(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}

	var req models.AccessConfirmRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if !req.Confirmed {
		return utils.BadRequestResponse(c, "Access must be explicitly confirmed")
	}

	out := h.escrowUC.ConfirmAccess(c.Request().Context(), id)
	return respondOutcome(c, out, http.StatusOK)
}

// CreateConfirmation records one buyer acknowledgment audit entry
func (h *EscrowHandler) CreateConfirmation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}

	var req models.BuyerConfirmationCreate
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	req.IPAddress = c.RealIP()
	req.UserAgent = c.Request().UserAgent()

	created, err := h.escrowUC.RecordConfirmation(c.Request().Context(), id, &req)
	if err != nil {
		return respondGatewayError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "", created)
}

// PurchaseActionState reports the buy affordance for a listing
func (h *EscrowHandler) PurchaseActionState(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid listing id")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]string{"state": string(h.escrowUC.PurchaseState(id))})
}

// TransactionActionState reports the affordance of the active action on a
// transaction, so the UI can render its buttons after a reload
func (h *EscrowHandler) TransactionActionState(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]string{"state": string(h.escrowUC.ActionState(id))})
}

// ListConfirmations lists recorded acknowledgments for a transaction
func (h *EscrowHandler) ListConfirmations(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}
	return utils.SuccessResponse(c, http.StatusOK, "", h.escrowUC.Confirmations(id))
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func respondOutcome(c echo.Context, out mutation.Outcome, successStatus int) error {
	return utils.OutcomeResponse(c, out, successStatus)
}

func respondGatewayError(c echo.Context, err error) error {
	return utils.GatewayErrorResponse(c, err)
}
