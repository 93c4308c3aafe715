package model

import (
	"strings"
	"time"
)

// 配送先住所（アドレス帳）
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	Consignee string `gorm:"type:varchar(50);not null" json:"consignee"`

	//電話番号
	Phone string `gorm:"type:varchar(20);not null" json:"phone"`

	Province string `gorm:"type:varchar(50)" json:"province"`
	City     string `gorm:"type:varchar(50)" json:"city"`
	District string `gorm:"type:varchar(50)" json:"district"`

	//番地・建物名など
	Detail string `gorm:"type:varchar(255);not null" json:"detail"`

	//家・会社など
	Label string `gorm:"type:varchar(20)" json:"label"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// 注文に保存する1行の住所
func (a Address) FullText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Province, a.City, a.District, a.Detail} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
