package model

import "time"

// 注文明細。商品IDと数量だけを持つ。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string    `gorm:"type:uuid;not null;index" json:"-"`
	ProductID string    `gorm:"type:varchar(255);not null" json:"id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
