package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusSubmitted  OrderStatus = "SUBMITTED"
	OrderStatusPaid       OrderStatus = "PAID" // 支払済み・店舗の受付待ち
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type PayStatus string

const (
	PayStatusUnpaid    PayStatus = "UNPAID"
	PayStatusPaid      PayStatus = "PAID"
	PayStatusRefunding PayStatus = "REFUNDING" // 取り消し済み・返金待ち
	PayStatusRefunded  PayStatus = "REFUNDED"
)

// キャンセル理由
const (
	CancelReasonUser    = "user cancelled"
	CancelReasonTimeout = "timed out unpaid"
)

type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"number"`
	UserID    int64       `gorm:"not null;index" json:"user_id"`
	AddressID int64       `gorm:"not null" json:"address_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PayStatus PayStatus   `gorm:"type:varchar(20);not null" json:"pay_status"`
	PayMethod int         `gorm:"not null;default:1" json:"pay_method"`

	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PackAmount      int             `gorm:"not null;default:0" json:"pack_amount"`
	TablewareNumber int             `gorm:"not null;default:0" json:"tableware_number"`
	Remark          string          `gorm:"type:varchar(100)" json:"remark"`

	//住所のスナップショット
	Consignee string `gorm:"type:varchar(50)" json:"consignee"`
	Phone     string `gorm:"type:varchar(20)" json:"phone"`
	Address   string `gorm:"type:varchar(255)" json:"address"`

	CancelReason    string `gorm:"type:varchar(255)" json:"cancel_reason"`
	RejectionReason string `gorm:"type:varchar(255)" json:"rejection_reason"`

	OrderTime    time.Time  `gorm:"not null;index" json:"order_time"`
	CheckoutTime *time.Time `json:"checkout_time"`
	CancelTime   *time.Time `json:"cancel_time"`
	DeliveryTime *time.Time `json:"delivery_time"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ユーザーが取り消せるのは受付前まで
func (o Order) UserCancellable() bool {
	return o.Status == OrderStatusSubmitted || o.Status == OrderStatusPaid
}

// 店舗側は配達中まで取り消せる
func (o Order) AdminCancellable() bool {
	switch o.Status {
	case OrderStatusSubmitted, OrderStatusPaid, OrderStatusConfirmed, OrderStatusDelivering:
		return true
	}
	return false
}
