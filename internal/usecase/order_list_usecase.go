package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

const MsgNoOrders = "No orders found."

// OrderListUsecase は注文サービスから注文一覧を取ってきて表示用にする。
// カートには依存しない。
type OrderListUsecase struct {
	gateway repo.OrderGateway
	log     *zap.Logger
}

func NewOrderListUsecase(gateway repo.OrderGateway, log *zap.Logger) *OrderListUsecase {
	return &OrderListUsecase{gateway: gateway, log: log}
}

type OrderListView struct {
	Orders  []model.OrderRecord `json:"orders"`
	Message string              `json:"message,omitempty"`
}

// statusTexter はHTTPステータス文言を持つゲートウェイエラー
type statusTexter interface {
	StatusText() string
}

// List は一覧を返す。取得失敗時は一覧を出さずにエラーだけ返す。
func (u *OrderListUsecase) List(ctx context.Context) (OrderListView, error) {
	orders, err := u.gateway.ListOrders(ctx)
	if err != nil {
		u.log.Error("fetch orders failed", zap.Error(err))
		return OrderListView{}, FetchFailed("Error fetching orders: "+fetchReason(err), err)
	}

	if len(orders) == 0 {
		return OrderListView{Orders: []model.OrderRecord{}, Message: MsgNoOrders}, nil
	}
	return OrderListView{Orders: orders}, nil
}

func fetchReason(err error) string {
	var st statusTexter
	if errors.As(err, &st) && st.StatusText() != "" {
		return st.StatusText()
	}
	var to interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &to) && to.Timeout()) {
		return "request timed out"
	}
	return "service unavailable"
}
