package handler

import (
	"net/http"

	"storefront/internal/domain/cart"
	"storefront/internal/middleware"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// /cart のHTTP。カートはセッションミドルウェアが context に載せたものを使う。
type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

type UpdateCartItemRequest struct {
	Delta *int `json:"delta"`
}

// CartView は GET /cart と各コマンドのレスポンス
type CartView struct {
	Items   []cart.Item   `json:"items"`
	Total   float64       `json:"total"`
	Outcome *cart.Outcome `json:"outcome,omitempty"`
}

// /cart, /cart/items/:id を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, sessionMW echo.MiddlewareFunc) {
	g := e.Group("/cart", sessionMW)

	g.GET("", h.getCart)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.patchItem)
	g.DELETE("/items/:id", h.deleteItem)
}

// 読み取りではカートを作らない。無ければ空として返す
func (h *CartHandler) getCart(c echo.Context) error {
	if _, ok := middleware.SessionIDFromContext(c); !ok {
		return noSession(c)
	}
	store, _, ok := middleware.CartFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, emptyView(nil))
	}
	return c.JSON(http.StatusOK, viewOf(store, nil))
}

func (h *CartHandler) addItem(c echo.Context) error {
	if _, ok := middleware.SessionIDFromContext(c); !ok {
		return noSession(c)
	}

	var req cart.Product
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	p, err := validator.ValidateCartProduct(req)
	if err != nil {
		return badRequest(c, "invalid product")
	}

	//追加するときだけカートを作る
	store, _, ok := middleware.EnsureCart(c)
	if !ok {
		return noSession(c)
	}
	out := store.AddItem(p)
	return c.JSON(http.StatusOK, viewOf(store, &out))
}

func (h *CartHandler) patchItem(c echo.Context) error {
	if _, ok := middleware.SessionIDFromContext(c); !ok {
		return noSession(c)
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Delta == nil {
		return badRequest(c, "invalid delta")
	}

	store, _, ok := middleware.CartFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, emptyView(&unknownItem))
	}
	out := store.UpdateItemQuantity(c.Param("id"), *req.Delta)
	return c.JSON(http.StatusOK, viewOf(store, &out))
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	if _, ok := middleware.SessionIDFromContext(c); !ok {
		return noSession(c)
	}
	store, _, ok := middleware.CartFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, emptyView(&unknownItem))
	}

	// 無い商品でも200（Ignored を返す）
	out := store.RemoveByID(c.Param("id"))
	return c.JSON(http.StatusOK, viewOf(store, &out))
}

// カートが無いときの PATCH / DELETE はどの商品も知らない
var unknownItem = cart.Outcome{Result: cart.Ignored, Reason: cart.ReasonUnknownItem}

func emptyView(out *cart.Outcome) CartView {
	return CartView{Items: []cart.Item{}, Total: 0, Outcome: out}
}

func noSession(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "no cart session"})
}

func viewOf(store *cart.Store, out *cart.Outcome) CartView {
	snap := store.Snapshot()
	return CartView{Items: snap.Items, Total: snap.Total, Outcome: out}
}
