package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return "", f.err
	}
	return "projects/test/messages/1", nil
}

func TestFCMNotifier_SendPush(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	n := &FCMNotifier{client: sender}

	err := n.SendPush(context.Background(), Push{
		Token: "device-token",
		Title: `3 new listings match your alert "Marrakech apartments"`,
		Body:  "Tap to view the new matches.",
		Data:  map[string]string{"alert_id": "a1", "type": "alert_match"},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "device-token", msg.Token)
	assert.Contains(t, msg.Notification.Title, "3 new listings")
	assert.Equal(t, "a1", msg.Data["alert_id"])
	assert.Equal(t, "high", msg.Android.Priority)
	assert.Equal(t, "10", msg.APNS.Headers["apns-priority"])
}

func TestFCMNotifier_SendPush_GatewayError(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("registration-token-not-registered")}
	n := &FCMNotifier{client: sender}

	err := n.SendPush(context.Background(), Push{Token: "stale-token", Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending FCM message")
}
