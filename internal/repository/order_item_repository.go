package repository

import (
	"context"
	"time"

	"takeout/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//完了注文の売上数ランキング
	TopSales(ctx context.Context, begin, end time.Time, limit int) ([]model.SalesTop, error)
}
