package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	ListByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error)
}
