package repository

import (
	"context"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, status string, page int, limit int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	err := q.Order("order_time desc, id desc").
		Limit(limit).
		Offset(pageOffset(page, limit)).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, translate(err)
	}
	return order.ID, nil
}

// 読んだ時の status を条件にして上書きを防ぐ
func (r *OrderGormRepository) UpdateState(ctx context.Context, order model.Order, from model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Select(
			"status",
			"pay_status",
			"checkout_time",
			"cancel_time",
			"cancel_reason",
			"rejection_reason",
			"delivery_time",
		).
		Updates(order)
	return guarded(res)
}

func (r *OrderGormRepository) UpdatePayStatus(ctx context.Context, orderID int64, from, to model.PayStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND pay_status = ?", orderID, from).
		Update("pay_status", to)
	return guarded(res)
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Number != "" {
		q = q.Where("number LIKE ?", "%"+f.Number+"%")
	}
	if f.Phone != "" {
		q = q.Where("phone LIKE ?", "%"+f.Phone+"%")
	}

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("order_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("order_time <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	if err := q.Order("order_time desc, id desc").Limit(f.Limit).Offset(pageOffset(f.Page, f.Limit)).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *OrderGormRepository) ListByStatusBefore(ctx context.Context, status model.OrderStatus, before time.Time) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND order_time < ?", status, before).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// [begin, end) の合計金額
func (r *OrderGormRepository) SumAmount(ctx context.Context, status model.OrderStatus, begin, end time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("order_time >= ? AND order_time < ?", begin, end)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var sum decimal.Decimal
	if err := q.Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// [begin, end) の件数
func (r *OrderGormRepository) Count(ctx context.Context, status model.OrderStatus, begin, end time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_time >= ? AND order_time < ?", begin, end)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}
