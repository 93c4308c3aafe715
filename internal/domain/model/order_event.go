package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderEventSubmitted OrderEventType = "order.submitted"
	OrderEventPaid      OrderEventType = "order.paid"
	OrderEventCancelled OrderEventType = "order.cancelled"
	OrderEventReminder  OrderEventType = "order.reminder" // 催促
)

// 店舗側へ通知する注文イベント
type OrderEvent struct {
	Type       OrderEventType  `json:"type"`
	OrderID    int64           `json:"order_id"`
	Number     string          `json:"number"`
	UserID     int64           `json:"user_id"`
	Status     OrderStatus     `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
