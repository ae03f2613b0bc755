package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderListQuery struct {
	Page   int
	Limit  int
	Status string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context, q OrderListQuery) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error)
}
