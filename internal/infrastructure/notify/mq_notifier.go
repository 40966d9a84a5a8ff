package notify

import (
	"context"
	"log/slog"

	"github.com/xiebiao/storefront/internal/application/notify"
	"github.com/xiebiao/storefront/pkg/logger"
)

// Publisher 消息发布接口(pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// MQNotifier 把通知发布到消息队列
// 路由键:notice.<severity>,下游可按级别订阅(如只关心destructive)
type MQNotifier struct {
	pub    Publisher
	logger *slog.Logger
}

func NewMQNotifier(pub Publisher, l *slog.Logger) *MQNotifier {
	return &MQNotifier{pub: pub, logger: logger.Component(l, "notice_mq")}
}

// Notify 发布失败只记录日志,不影响业务操作
func (n *MQNotifier) Notify(ctx context.Context, notice notify.Notice) {
	key := "notice." + string(notice.Severity)
	if err := n.pub.Publish(ctx, key, notice); err != nil {
		n.logger.Warn("publish notice failed", "routing_key", key, "error", err)
	}
}
