package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// OrderGateway はリモートの注文サービスへの出入口。
// ストアフロント側から注文作成・一覧取得に使う。
type OrderGateway interface {
	CreateOrder(ctx context.Context, payload model.CreateOrderPayload, idempotencyKey string) (model.OrderRecord, error)
	ListOrders(ctx context.Context) ([]model.OrderRecord, error)
}
