package model

import (
	"github.com/shopspring/decimal"
)

// 注文明細（カートからのスナップショット）
type OrderItem struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  int64           `gorm:"not null;index" json:"order_id"`
	DishID   *int64          `gorm:"index" json:"dish_id,omitempty"`
	ComboID  *int64          `gorm:"index" json:"combo_id,omitempty"`
	Name     string          `gorm:"type:varchar(64);not null" json:"name"`
	Image    string          `gorm:"type:varchar(255)" json:"image"`
	Flavor   string          `gorm:"type:varchar(64)" json:"flavor"`
	Quantity int64           `gorm:"not null" json:"quantity"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
}

// 売上ランキング1行
type SalesTop struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}
