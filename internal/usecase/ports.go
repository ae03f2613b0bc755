package usecase

import (
	"time"

	"storefront/internal/domain/cart"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// CartReader は購入時にカートの写しを読むだけの約束。
type CartReader interface {
	Snapshot() cart.Snapshot
}
