package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// セットメニュー
type ComboMeal struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	CategoryID  int64           `gorm:"not null;index" json:"category_id"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"type:varchar(255)" json:"image"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'DISABLED'" json:"status"`
	CreateUser  int64           `json:"create_user"`
	UpdateUser  int64           `json:"update_user"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// セットと料理の紐づけ
type ComboMealDish struct {
	ID      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ComboID int64           `gorm:"not null;index" json:"combo_id"`
	DishID  int64           `gorm:"not null;index" json:"dish_id"`
	Name    string          `gorm:"type:varchar(64)" json:"name"`
	Price   decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Copies  int             `gorm:"not null;default:1" json:"copies"`
}
