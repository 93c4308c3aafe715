package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"takeout/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// 店舗側の購読者が受け取る fanout exchange
const OrderEventsExchange = "order_events"

// テストで差し替えるための最小インターフェース
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQ へ注文イベントを送る
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   publishChannel
	mu   sync.Mutex
}

// 接続して exchange を宣言する
func Dial(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(OrderEventsExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitPublisher{conn: conn, ch: ch}, nil
}

func newPublishing(ev model.OrderEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         string(ev.Type),
		MessageId:    fmt.Sprintf("%s:%s", ev.Number, ev.Type),
		Body:         body,
	}, nil
}

// routing key はイベント種別（fanout なので購読側の参考用）
func (p *RabbitPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	msg, err := newPublishing(ev)
	if err != nil {
		return err
	}

	// amqp.Channel は並行 publish に向かない
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, OrderEventsExchange, string(ev.Type), false, false, msg)
}

func (p *RabbitPublisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

// RABBITMQ_URL がないときはログに出すだけ
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	zap.L().Info("order event",
		zap.String("type", string(ev.Type)),
		zap.Int64("order_id", ev.OrderID),
		zap.String("number", ev.Number),
		zap.String("status", string(ev.Status)),
	)
	return nil
}
