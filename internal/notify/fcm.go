package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmSender is the subset of *messaging.Client the notifier uses, split out
// so tests can substitute a fake.
type fcmSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier implements Notifier via Firebase Cloud Messaging.
type FCMNotifier struct {
	client fcmSender
}

// NewFCMNotifier initializes the Firebase app from a service account
// credentials file and returns a notifier backed by its Messaging client.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating messaging client: %w", err)
	}

	return &FCMNotifier{client: client}, nil
}

// SendPush sends one push message to the device token. One attempt, no
// retries; the gateway's own deadline still applies within ctx.
func (n *FCMNotifier) SendPush(ctx context.Context, p Push) error {
	if _, err := n.client.Send(ctx, buildMessage(p)); err != nil {
		return fmt.Errorf("sending FCM message: %w", err)
	}
	return nil
}

func buildMessage(p Push) *messaging.Message {
	return &messaging.Message{
		Token: p.Token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "alerts",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
