package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/okwaro/sokopesa/internal/pkg/websocket"
	"github.com/okwaro/sokopesa/services/escrow"

	appmw "github.com/okwaro/sokopesa/internal/pkg/middleware"
)

// EscrowHandler handles HTTP requests for the buyer escrow flow
type EscrowHandler struct {
	escrowUC   escrow.EscrowUC
	dispatcher *notify.Dispatcher
	hub        *websocket.Hub
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(escrowUC escrow.EscrowUC, dispatcher *notify.Dispatcher, hub *websocket.Hub) *EscrowHandler {
	return &EscrowHandler{
		escrowUC:   escrowUC,
		dispatcher: dispatcher,
		hub:        hub,
	}
}

// RegisterRoutes registers the buyer escrow routes
func (h *EscrowHandler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	g := e.Group("/api/v1", appmw.JWTAuthMiddleware(jwtConfig))

	g.POST("/buyer/purchase/initiate", h.InitiatePurchase)
	g.GET("/buyer/transactions", h.MyPurchases)

	g.GET("/transactions/:id", h.GetTransaction)
	g.GET("/transactions/:id/action-state", h.TransactionActionState)
	g.GET("/listings/:id/purchase-state", h.PurchaseActionState)
	g.POST("/transactions/:id/reveal", h.RevealCredentials)
	g.GET("/transactions/:id/credentials", h.GetCredentials)
	g.POST("/transactions/:id/confirm-access", h.ConfirmAccess)
	g.POST("/transactions/:id/confirmations", h.CreateConfirmation)
	g.GET("/transactions/:id/confirmations", h.ListConfirmations)

	g.POST("/contracts/:id/sign", h.SignContract)

	g.GET("/notifications", h.ListNotifications)
	g.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	g.POST("/notifications/:id/read", h.MarkNotificationRead)
	g.DELETE("/notifications/:id", h.RemoveNotification)

	// WebSocket upgrade carries its own token; it cannot pass the header
	// middleware from a browser.
	e.GET("/ws", h.hub.HandleConnection)
}
