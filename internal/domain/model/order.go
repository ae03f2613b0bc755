package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// ParseOrderStatus は文字列を OrderStatus にする。知らない値なら false。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCanceled:
		return OrderStatus(s), true
	}
	return "", false
}

// 許可するステータス遷移
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCanceled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCanceled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// 注文（注文サービス側で永続化）
type Order struct {
	ID             string      `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerEmail     string      `gorm:"type:varchar(255);not null;index" json:"buyerEmail"`
	TotalAmount    float64     `gorm:"not null" json:"totalAmount"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	IdempotencyKey string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt      time.Time   `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
