package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selhaddad/sakanalert/pkg/logger"
)

func TestNoOpNotifier_SendPush(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewNoOpNotifier(logger.NewWithWriter(&buf, "debug", "text"))

	err := n.SendPush(context.Background(), Push{
		Token: "t",
		Title: "2 new listings match your alert \"Agadir houses\"",
		Data:  map[string]string{"alert_id": "a9"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "push discarded")
	assert.Contains(t, buf.String(), "a9")
}
