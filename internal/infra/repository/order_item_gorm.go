package repository

import (
	"context"
	"time"

	"takeout/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

// 完了した注文だけ集計
func (r *OrderItemGormRepository) TopSales(ctx context.Context, begin, end time.Time, limit int) ([]model.SalesTop, error) {
	var out []model.SalesTop
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.name AS name, SUM(oi.quantity) AS quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ? AND o.order_time >= ? AND o.order_time < ?", model.OrderStatusCompleted, begin, end).
		Group("oi.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return []model.SalesTop{}, err
	}
	return out, nil
}
