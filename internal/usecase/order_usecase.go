package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"go.uber.org/zap"
)

const maxIdempotencyKeyLen = 255

var errCreateConflict = errors.New("order create conflict")

// OrderUsecase は注文サービス側（/orders）の業務ロジック。
type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	audit  repo.AuditLogRepository
	idGen  IDGenerator
	clock  Clock
	log    *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	audit repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:     tx,
		orders: orders,
		items:  items,
		audit:  audit,
		idGen:  idGen,
		clock:  clock,
		log:    log,
	}
}

type PlaceOrderInput struct {
	Payload        model.CreateOrderPayload
	IdempotencyKey string
}

type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
}

type OrderListOutput struct {
	Items []model.OrderRecord
	Total int64
	Page  int
	Limit int
}

// PlaceOrder は注文を作る。同じ冪等キーなら同じ注文を返す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.OrderRecord, error) {
	if err := validator.ValidateOrderPayload(in.Payload); err != nil {
		return model.OrderRecord{}, ValidationFailed(err.Error())
	}
	email, _ := validator.ValidateEmail(in.Payload.BuyerEmail)

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		// キー無しは毎回新規
		key = u.idGen.NewID()
	}
	if len(key) > maxIdempotencyKeyLen {
		return model.OrderRecord{}, ValidationFailed("invalid idempotency_key")
	}

	var out model.OrderRecord

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			out, err = u.withItems(ctx, r.OrderItems(), existing)
			return err
		}

		now := u.clock.Now()
		order := model.Order{
			ID:             u.idGen.NewID(),
			BuyerEmail:     email,
			TotalAmount:    in.Payload.TotalAmount,
			Status:         model.OrderStatusPending,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("%w: %v", errCreateConflict, err)
		}

		//注文明細一括作成
		items := make([]model.OrderItem, 0, len(in.Payload.Products))
		for _, p := range in.Payload.Products {
			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Quantity:  p.Quantity,
				CreatedAt: now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Action:       model.AuditActionCreateOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   order.ID,
			AfterJSON:    model.StatusJSON(order.Status),
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.Items = items
		out = order.ToRecord()
		return nil
	})
	if errors.Is(err, errCreateConflict) {
		//競合（同時で同じキーが入った等）はロールバック後にもう一回検索して同じ結果を返す
		ex, found, findErr := u.orders.FindByIdempotencyKey(ctx, key)
		if findErr == nil && found {
			return u.withItems(ctx, u.items, ex)
		}
		u.log.Warn("order create conflict", zap.String("idempotency_key", key), zap.Error(err))
		return model.OrderRecord{}, NewHTTPError(http.StatusConflict, "idempotency conflict")
	}
	if err != nil {
		return model.OrderRecord{}, err
	}

	u.log.Info("order placed",
		zap.String("order_id", out.ID),
		zap.Int("products", len(out.Products)),
		zap.Float64("total_amount", out.TotalAmount),
	)
	return out, nil
}

// ListOrders は新しい順に注文を返す。
func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Page < 1 {
		return OrderListOutput{}, ValidationFailed("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, ValidationFailed("invalid limit")
	}
	if in.Status != "" {
		if _, ok := model.ParseOrderStatus(in.Status); !ok {
			return OrderListOutput{}, ValidationFailed("invalid status")
		}
	}

	orders, total, err := u.orders.List(ctx, repo.OrderListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemsByOrder, err := u.items.ListByOrderIDs(ctx, ids)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	records := make([]model.OrderRecord, 0, len(orders))
	for _, o := range orders {
		o.Items = itemsByOrder[o.ID]
		records = append(records, o.ToRecord())
	}

	return OrderListOutput{
		Items: records,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string) (model.OrderRecord, error) {
	if strings.TrimSpace(orderID) == "" {
		return model.OrderRecord{}, ValidationFailed("invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.OrderRecord{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.OrderRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.withItems(ctx, u.items, o)
}

// UpdateStatus は決められた遷移だけ許す。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID string, status string) (model.OrderRecord, error) {
	next, ok := model.ParseOrderStatus(status)
	if !ok {
		return model.OrderRecord{}, ValidationFailed("invalid status")
	}

	var out model.OrderRecord
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusConflict, "invalid status transition")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   model.StatusJSON(o.Status),
			AfterJSON:    model.StatusJSON(next),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = next
		out, err = u.withItems(ctx, r.OrderItems(), o)
		return err
	})
	if err != nil {
		return model.OrderRecord{}, err
	}

	u.log.Info("order status updated", zap.String("order_id", orderID), zap.String("status", string(next)))
	return out, nil
}

// History は注文の変更履歴を起きた順に返す。
func (u *OrderUsecase) History(ctx context.Context, orderID string) ([]model.AuditLog, error) {
	if _, err := u.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	rt := model.AuditResourceOrder
	logs, err := u.audit.List(ctx, repo.AuditLogFilter{
		ResourceType: &rt,
		ResourceID:   orderID,
		Limit:        200,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

func (u *OrderUsecase) withItems(ctx context.Context, items repo.OrderItemRepository, o model.Order) (model.OrderRecord, error) {
	byOrder, err := items.ListByOrderIDs(ctx, []string{o.ID})
	if err != nil {
		return model.OrderRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	o.Items = byOrder[o.ID]
	return o.ToRecord(), nil
}
