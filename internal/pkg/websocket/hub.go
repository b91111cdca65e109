package websocket

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/constants"
	jwtpkg "github.com/okwaro/sokopesa/internal/pkg/jwt"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/sirupsen/logrus"
)

// Event is the envelope pushed to UI clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	userID int64
	mu     sync.Mutex
}

func (c *client) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub manages WebSocket connections from UI clients and pushes toast
// events to them. It implements notify.Sink.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	cfg      models.JWTConfig
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// NewHub creates a hub validating connections against the given JWT config
func NewHub(cfg models.JWTConfig, log *logger.AppLogger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.WithComponent("websocket"),
	}
}

// HandleConnection authenticates, upgrades, and serves one UI connection
// until it closes.
func (h *Hub) HandleConnection(c echo.Context) error {
	userID, err := h.authenticate(c)
	if err != nil {
		return err
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: ws, userID: userID}
	h.add(cl)
	defer func() {
		h.remove(cl)
		ws.Close()
	}()

	h.log.WithField("user_id", userID).Info("websocket client connected")

	// The UI only listens; the read loop just detects disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Surface pushes a notification toast to every connected client.
func (h *Hub) Surface(n notify.Notification) {
	event := Event{Type: constants.EventNotification, Data: n}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(event); err != nil {
			h.log.WithError(err).Warn("dropping unreachable websocket client")
			h.remove(cl)
			cl.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) authenticate(c echo.Context) (int64, error) {
	authHeader := c.Request().Header.Get("Authorization")
	token := ""
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return 0, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}
		token = parts[1]
	} else {
		// Browsers cannot set headers on WebSocket upgrades.
		token = c.QueryParam("token")
	}
	if token == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Missing session token")
	}

	claims, err := jwtpkg.ValidateToken(token, h.cfg.Secret)
	if err != nil {
		h.log.WithError(err).Warn("websocket token validation failed")
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims.UserID, nil
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, cl)
}
