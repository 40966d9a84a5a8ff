package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/application/notify"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/mq"
)

type fakeChannel struct {
	keys []string
	msgs []amqp.Publishing
	err  error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestMQNotifier(t *testing.T) {
	t.Run("按级别路由", func(t *testing.T) {
		ch := &fakeChannel{}
		n := NewMQNotifier(mq.NewPublisher(ch, "storefront.notices"), logger.Discard())

		n.Notify(context.Background(), notify.Success("Order placed!", "Order #%s", "004"))

		require.Equal(t, []string{"notice.success"}, ch.keys)
		var got notify.Notice
		require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &got))
		assert.Equal(t, "Order placed!", got.Title)
		assert.Equal(t, "Order #004", got.Description)
	})

	t.Run("发布失败不panic", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		n := NewMQNotifier(mq.NewPublisher(ch, "storefront.notices"), logger.Discard())

		assert.NotPanics(t, func() {
			n.Notify(context.Background(), notify.Info("Logged out", ""))
		})
	})
}
