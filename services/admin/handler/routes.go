package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/services/admin"

	appmw "github.com/okwaro/sokopesa/internal/pkg/middleware"
)

// AdminHandler handles HTTP requests for marketplace administration
type AdminHandler struct {
	adminUC admin.AdminUC
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUC admin.AdminUC) *AdminHandler {
	return &AdminHandler{adminUC: adminUC}
}

// RegisterRoutes registers the admin routes
func (h *AdminHandler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	g := e.Group("/api/v1/admin", appmw.JWTAuthMiddleware(jwtConfig), appmw.AdminOnlyMiddleware())

	g.GET("/transactions", h.ListTransactions)
	g.POST("/transactions/:id/release", h.ReleaseFunds)
	g.POST("/transactions/:id/refund", h.RefundTransaction)

	g.GET("/listings", h.ListListings)
	g.POST("/listings/:id/approve", h.ApproveListing)
	g.POST("/listings/:id/reject", h.RejectListing)
}
