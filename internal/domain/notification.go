package domain

// Notification is a one-shot user-facing message carried across a single
// redirect hop on the web channel, encoded as a query parameter. It has no
// server-side persistence.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Notification types understood by the web templates.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)
