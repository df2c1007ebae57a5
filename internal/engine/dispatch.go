package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/selhaddad/sakanalert/internal/metrics"
	"github.com/selhaddad/sakanalert/internal/notify"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// dispatch delivers one alert's matches: a best-effort push followed by the
// notification-state write. The write runs regardless of push outcome so the
// alert is not re-notified for the same listings on the next run. Neither
// failure aborts the run; both are logged and counted.
func (e *Engine) dispatch(ctx context.Context, a *domain.Alert, matched []domain.Listing) {
	sentAt := e.now()

	switch {
	case a.PushToken == "":
		e.log.Debug("no push token registered, skipping push",
			"alert_id", a.ID,
			"user_id", a.UserID,
		)
	default:
		if err := e.sendPush(ctx, a, matched); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			e.log.Error("push send failed",
				"alert_id", a.ID,
				"user_id", a.UserID,
				"matches", len(matched),
				"error", err,
			)
		} else {
			metrics.NotificationsSentTotal.Inc()
			e.log.Info("push sent",
				"alert_id", a.ID,
				"matches", len(matched),
			)
		}
	}

	if err := e.store.UpdateAlertNotification(ctx, a.ID, sentAt, len(matched)); err != nil {
		metrics.BookkeepingFailuresTotal.Inc()
		e.log.Error("updating alert notification state failed",
			"alert_id", a.ID,
			"error", err,
		)
	}
}

// sendPush waits for a rate limiter slot, then makes a single delivery
// attempt bounded by the configured push timeout.
func (e *Engine) sendPush(ctx context.Context, a *domain.Alert, matched []domain.Listing) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.pushTimeout)
	defer cancel()

	return e.notifier.SendPush(ctx, buildPush(a, matched))
}

// buildPush composes the notification payload for an alert's matches.
func buildPush(a *domain.Alert, matched []domain.Listing) notify.Push {
	title := fmt.Sprintf("%d new listings match %q", len(matched), a.Name)
	body := previewLine(&matched[0])

	if len(matched) == 1 {
		title = fmt.Sprintf("New listing matches %q", a.Name)
	} else {
		body += fmt.Sprintf(" and %d more", len(matched)-1)
	}

	return notify.Push{
		Token: a.PushToken,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"alert_id":    a.ID,
			"match_count": strconv.Itoa(len(matched)),
		},
	}
}

func previewLine(l *domain.Listing) string {
	return fmt.Sprintf("%s: %.0f MAD, %s", l.Title, l.Price, l.City)
}
