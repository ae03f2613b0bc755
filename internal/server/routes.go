package server

import (
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

// RegisterAPIRoutes は注文サービスのルートを登録する
func RegisterAPIRoutes(e *echo.Echo, orderH *handler.OrderHandler) {
	orderH.RegisterRoutes(e)
}

// RegisterStorefrontRoutes はカート・購入・注文一覧のルートを登録する
func RegisterStorefrontRoutes(e *echo.Echo, sessionMW echo.MiddlewareFunc, cartH *handler.CartHandler, purchaseH *handler.PurchaseHandler) {
	cartH.RegisterRoutes(e, sessionMW)
	purchaseH.RegisterRoutes(e, sessionMW)
}
