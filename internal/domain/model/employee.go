package model

import "time"

// 管理画面のアカウント。Status=DISABLED はロック扱い
type Employee struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"username"`
	Name         string    `gorm:"type:varchar(32);not null" json:"name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Phone        string    `gorm:"type:varchar(11)" json:"phone"`
	Sex          string    `gorm:"type:varchar(2)" json:"sex"`
	IDNumber     string    `gorm:"type:varchar(18)" json:"id_number"`
	Status       Status    `gorm:"type:varchar(20);not null;default:'ENABLED'" json:"status"`
	CreateUser   int64     `json:"create_user"`
	UpdateUser   int64     `json:"update_user"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
