package model

import (
	"time"

	"gorm.io/datatypes"
)

// 注文ステータス更新、販売状態の切り替えなど。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//販売開始/停止
	AuditActionUpdateSaleStatus AuditAction = "UPDATE_SALE_STATUS"
	//アカウントの有効/ロック
	AuditActionUpdateAccountStatus AuditAction = "UPDATE_ACCOUNT_STATUS"
	AuditActionDelete              AuditAction = "DELETE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceDish     AuditResourceType = "dish"
	AuditResourceCombo    AuditResourceType = "combo"
	AuditResourceEmployee AuditResourceType = "employee"
)

// 監査ログ（従業員の操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した従業員のID。
	ActorEmployeeID int64 `gorm:"not null;index" json:"actor_employee_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（order / dish / combo / employee）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	Before datatypes.JSON `json:"before"`
	After  datatypes.JSON `json:"after"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
