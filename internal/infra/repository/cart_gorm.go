package repository

import (
	"context"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカート明細を一覧取得
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同じ料理+口味、または同じセットの明細
func (r *CartGormRepository) FindByKey(ctx context.Context, userID int64, key repo.CartItemKey) (model.CartItem, error) {
	k := key.String()
	if k == "" {
		return model.CartItem{}, repo.ErrNotFound
	}

	var item model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_key = ?", userID, k).
		First(&item).Error; err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

func (r *CartGormRepository) Create(ctx context.Context, item model.CartItem) error {
	item.ItemKey = item.Key()
	return translate(r.db.WithContext(ctx).Create(&item).Error)
}

// 読んだ値を書き戻さず、DB側で足し引きする
func (r *CartGormRepository) AddQuantity(ctx context.Context, cartItemID int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND quantity + ? >= 1", cartItemID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return affected(res)
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)
	return affected(res)
}

// カートを空にする（0件でもエラーにしない）
func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
