// Package notify defines the push notification interface and
// implementations for alert delivery.
package notify

import "context"

// Push contains the data for one push notification to a device token.
type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Notifier defines the interface for sending push notifications.
// Implementations make at most one delivery attempt per call; retry policy
// belongs to the caller.
type Notifier interface {
	SendPush(ctx context.Context, p Push) error
}
