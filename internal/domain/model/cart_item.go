package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細（ユーザーごと）
// 追加時点の価格を必ず保存。
type CartItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index;uniqueIndex:idx_cart_user_item,priority:1" json:"user_id"`
	DishID    *int64          `json:"dish_id,omitempty"`
	ComboID   *int64          `json:"combo_id,omitempty"`
	Flavor    string          `gorm:"type:varchar(64)" json:"flavor"`
	ItemKey   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_user_item,priority:2" json:"-"`
	Name      string          `gorm:"type:varchar(64);not null" json:"name"`
	Image     string          `gorm:"type:varchar(255)" json:"image"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 同じ明細の判定キー（料理+口味 or セット）
func CartItemKeyOf(dishID, comboID *int64, flavor string) string {
	if comboID != nil {
		return "c:" + strconv.FormatInt(*comboID, 10)
	}
	if dishID != nil {
		return "d:" + strconv.FormatInt(*dishID, 10) + ":" + flavor
	}
	return ""
}

func (c CartItem) Key() string {
	return CartItemKeyOf(c.DishID, c.ComboID, c.Flavor)
}

// 小計
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Amount.Mul(decimal.NewFromInt(c.Quantity))
}
