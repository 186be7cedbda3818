package domain

import "time"

// Notification templates
const (
	TemplateWelcome       = "welcome"
	TemplateResetPassword = "reset_password"
)

// Notification is a message queued for delivery to a user.
type Notification struct {
	ID        string            `json:"id"`
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}
