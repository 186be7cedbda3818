package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iho/fintrack/internal/domain"
)

// ErrInvalidMessage marks a delivery that can never be processed.
var ErrInvalidMessage = errors.New("invalid notification message")

func encodeNotification(n *domain.Notification) ([]byte, error) {
	return json.Marshal(n)
}

func decodeNotification(body []byte) (*domain.Notification, error) {
	var n domain.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if n.Template == "" || n.Recipient == "" {
		return nil, fmt.Errorf("%w: template and recipient are required", ErrInvalidMessage)
	}
	return &n, nil
}
