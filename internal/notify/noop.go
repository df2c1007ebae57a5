package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded pushes. It is used
// when FCM is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards pushes with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendPush logs and discards a push.
func (n *NoOpNotifier) SendPush(_ context.Context, p Push) error {
	n.log.Debug("push discarded (no gateway configured)",
		"title", p.Title,
		"alert_id", p.Data["alert_id"],
	)
	return nil
}
