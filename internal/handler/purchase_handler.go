package handler

import (
	"net/http"

	"storefront/internal/domain/cart"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /purchase と注文一覧（表示用）のHTTP
type PurchaseHandler struct {
	purchase *usecase.PurchaseUsecase
	orders   *usecase.OrderListUsecase
}

func NewPurchaseHandler(purchase *usecase.PurchaseUsecase, orders *usecase.OrderListUsecase) *PurchaseHandler {
	return &PurchaseHandler{purchase: purchase, orders: orders}
}

type PurchaseRequest struct {
	BuyerEmail string `json:"buyerEmail"`
}

func (h *PurchaseHandler) RegisterRoutes(e *echo.Echo, sessionMW echo.MiddlewareFunc) {
	e.POST("/purchase", h.submit, sessionMW)

	// 一覧はカートに依存しない
	e.GET("/orders", h.listOrders)
}

func (h *PurchaseHandler) submit(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return noSession(c)
	}
	//カートが無ければ空カートとして扱う（登録はしない）
	var store usecase.CartReader = cart.NewStore()
	if existing, _, ok := middleware.CartFromContext(c); ok {
		store = existing
	}

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.purchase.Submit(c.Request().Context(), store, usecase.PurchaseInput{
		SessionID:  sessionID,
		BuyerEmail: req.BuyerEmail,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *PurchaseHandler) listOrders(c echo.Context) error {
	out, err := h.orders.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
