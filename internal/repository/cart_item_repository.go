package repository

import (
	"context"

	"takeout/internal/domain/model"
)

// 同じ明細かどうかの判定キー（料理+口味 or セット）
type CartItemKey struct {
	DishID  *int64
	ComboID *int64
	Flavor  string
}

func (k CartItemKey) String() string {
	return model.CartItemKeyOf(k.DishID, k.ComboID, k.Flavor)
}

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByKey(ctx context.Context, userID int64, key CartItemKey) (model.CartItem, error)
	//同じ明細が既にあれば ErrDuplicate
	Create(ctx context.Context, item model.CartItem) error
	//数量を delta だけ増減する（1未満になる場合は ErrNotFound）
	AddQuantity(ctx context.Context, cartItemID int64, delta int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	//ユーザーのカートを空にする
	DeleteByUserID(ctx context.Context, userID int64) error
}
