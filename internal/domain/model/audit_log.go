package model

import "time"

// 注文作成、注文ステータス更新など。
type AuditAction string

const (
	//注文を作成した操作。
	AuditActionCreateOrder AuditAction = "CREATE_ORDER"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ。
// 「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//Actionは操作の種類（CREATE_ORDER / UPDATE_ORDER_STATUS）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`

	//対象の注文ID
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before"`
	AfterJSON  string `gorm:"type:text" json:"after"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// StatusJSON は {"status":"..."} を作る
func StatusJSON(s OrderStatus) string {
	if s == "" {
		return ""
	}
	return `{"status":"` + string(s) + `"}`
}
