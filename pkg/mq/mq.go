// Package mq RabbitMQ事件发布
//
// 只实现发布端:店面把用户通知作为事件广播出去,由下游(邮件、审计)自行订阅。
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/storefront/pkg/metrics"
)

// Channel 发布所需的amqp.Channel子集(测试可替换)
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
}

// Dial 连接RabbitMQ并声明topic类型的持久化Exchange
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// durable=true, autoDelete=false, internal=false, noWait=false
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	p := NewPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewPublisher 基于已有channel创建发布者
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{channel: ch, exchange: exchange}
}

// Publish 以JSON发布一条持久化消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.Init()
	metrics.MessagesPublishedTotal.WithLabelValues(p.exchange, routingKey).Inc()
	return nil
}

// Close 关闭channel和连接
func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
