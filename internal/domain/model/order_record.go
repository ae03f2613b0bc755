package model

import "time"

// OrderProduct は注文ペイロード内の1行 {id, quantity}。
type OrderProduct struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// CreateOrderPayload は POST /orders のボディ。
type CreateOrderPayload struct {
	BuyerEmail  string         `json:"buyerEmail"`
	Products    []OrderProduct `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Status      OrderStatus    `json:"status"`
}

// OrderRecord は GET /orders で返す1件。
type OrderRecord struct {
	ID          string         `json:"id"`
	BuyerEmail  string         `json:"buyerEmail"`
	Products    []OrderProduct `json:"products"`
	TotalAmount float64        `json:"totalAmount"`
	Status      OrderStatus    `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToRecord は Order と明細から OrderRecord を作る。
func (o Order) ToRecord() OrderRecord {
	products := make([]OrderProduct, 0, len(o.Items))
	for _, it := range o.Items {
		products = append(products, OrderProduct{ID: it.ProductID, Quantity: it.Quantity})
	}
	return OrderRecord{
		ID:          o.ID,
		BuyerEmail:  o.BuyerEmail,
		Products:    products,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}
