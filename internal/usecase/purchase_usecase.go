package usecase

import (
	"context"
	"net/http"
	"sync"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"go.uber.org/zap"
)

// ユーザーに見せるメッセージ
const (
	MsgInvalidEmail     = "Please provide a valid email address."
	MsgCartEmpty        = "Your cart is empty."
	MsgOrderPlaced      = "Order placed successfully!"
	MsgOrderFailed      = "Error creating order. Please try again."
	MsgSubmitInProgress = "Order submission already in progress."
)

// PurchaseUsecase はカートの写しから注文を作って注文サービスに送る。
type PurchaseUsecase struct {
	gateway repo.OrderGateway
	idGen   IDGenerator
	log     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // セッションID
}

func NewPurchaseUsecase(gateway repo.OrderGateway, idGen IDGenerator, log *zap.Logger) *PurchaseUsecase {
	return &PurchaseUsecase{
		gateway:  gateway,
		idGen:    idGen,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

type PurchaseInput struct {
	SessionID  string
	BuyerEmail string
}

type PurchaseResult struct {
	Message string            `json:"message"`
	Order   model.OrderRecord `json:"order"`
}

// Submit は email → カート → 二重送信 の順にチェックしてから送信する。
// 成功してもカートは空にしない。
func (u *PurchaseUsecase) Submit(ctx context.Context, store CartReader, in PurchaseInput) (PurchaseResult, error) {
	email, err := validator.ValidateEmail(in.BuyerEmail)
	if err != nil {
		u.rejected(in.SessionID, "invalid_email")
		return PurchaseResult{}, ValidationFailed(MsgInvalidEmail)
	}

	snap := store.Snapshot()
	if len(snap.Items) == 0 {
		u.rejected(in.SessionID, "cart_empty")
		return PurchaseResult{}, ValidationFailed(MsgCartEmpty)
	}

	if !u.acquire(in.SessionID) {
		u.rejected(in.SessionID, "submit_in_flight")
		return PurchaseResult{}, &HTTPError{Status: http.StatusConflict, Message: MsgSubmitInProgress, Kind: KindSubmitInFlight}
	}
	defer u.release(in.SessionID)

	payload := BuildOrderPayload(email, snap)
	key := u.idGen.NewID()

	order, err := u.gateway.CreateOrder(ctx, payload, key)
	if err != nil {
		u.log.Error("create order failed",
			zap.String("session_id", in.SessionID),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return PurchaseResult{}, FetchFailed(MsgOrderFailed, err)
	}

	u.log.Info("order created",
		zap.String("session_id", in.SessionID),
		zap.String("order_id", order.ID),
		zap.Float64("total_amount", payload.TotalAmount),
	)
	return PurchaseResult{Message: MsgOrderPlaced, Order: order}, nil
}

// BuildOrderPayload はカートの写しから {buyerEmail, products, totalAmount, status} を作る。
func BuildOrderPayload(email string, snap cart.Snapshot) model.CreateOrderPayload {
	products := make([]model.OrderProduct, 0, len(snap.Items))
	for _, it := range snap.Items {
		products = append(products, model.OrderProduct{ID: it.ID, Quantity: int64(it.Quantity)})
	}
	return model.CreateOrderPayload{
		BuyerEmail:  email,
		Products:    products,
		TotalAmount: snap.Total,
		Status:      model.OrderStatusPending,
	}
}

// 送信前に弾いたものも残しておく
func (u *PurchaseUsecase) rejected(sessionID, reason string) {
	u.log.Info("purchase rejected",
		zap.String("session_id", sessionID),
		zap.String("reason", reason),
	)
}

func (u *PurchaseUsecase) acquire(sessionID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, busy := u.inFlight[sessionID]; busy {
		return false
	}
	u.inFlight[sessionID] = struct{}{}
	return true
}

func (u *PurchaseUsecase) release(sessionID string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	delete(u.inFlight, sessionID)
}
