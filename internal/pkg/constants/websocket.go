package constants

// WebSocket event types pushed to UI clients
const (
	EventNotification = "notification"
)
