package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/utils"
)

// ListTransactions handles the admin transaction table
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	transactions, err := h.adminUC.Transactions(c.Request().Context(), c.QueryParam("state"))
	if err != nil {
		return utils.GatewayErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", transactions)
}

// ListListings handles the moderation queue
func (h *AdminHandler) ListListings(c echo.Context) error {
	listings, err := h.adminUC.Listings(c.Request().Context(), c.QueryParam("state"))
	if err != nil {
		return utils.GatewayErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", listings)
}

// ReleaseFunds resolves a dispute in the seller's favor
func (h *AdminHandler) ReleaseFunds(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}
	return utils.OutcomeResponse(c, h.adminUC.ReleaseFunds(c.Request().Context(), id), http.StatusOK)
}

// RefundTransaction returns escrowed funds to the buyer
func (h *AdminHandler) RefundTransaction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction id")
	}
	return utils.OutcomeResponse(c, h.adminUC.RefundTransaction(c.Request().Context(), id), http.StatusOK)
}

// ApproveListing publishes a reviewed listing
func (h *AdminHandler) ApproveListing(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid listing id")
	}
	return utils.OutcomeResponse(c, h.adminUC.ApproveListing(c.Request().Context(), id), http.StatusOK)
}

// RejectListing returns a listing to the seller with a reason
func (h *AdminHandler) RejectListing(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid listing id")
	}

	var req models.ListingRejectRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	return utils.OutcomeResponse(c, h.adminUC.RejectListing(c.Request().Context(), id, req.Reason), http.StatusOK)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
