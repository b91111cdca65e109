package constants

// NATS subjects
const (
	// SubjectNotifications carries toast events between edge instances.
	SubjectNotifications = "sokopesa.notifications"
)
