package middleware

import (
	"net/http"
	"time"

	"storefront/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "cart_session"

	CtxSessionIDKey = "session_id" // string
	CtxCartKey      = "cart"       // *cart.Store
	ctxRegistryKey  = "cart_registry"
)

// CartRegistry はセッションIDからカートを引く
type CartRegistry interface {
	Touch(id string) (*cart.Store, bool)
	GetOrCreate(id string) *cart.Store
}

type CartSessionConfig struct {
	Secure bool
	MaxAge time.Duration
}

// CartSession は cart_session クッキーでセッションを決めて、既存のカートがあれば context に載せる。
// クッキーが無い・壊れている場合は新しいIDを発行する。
// カート自体は EnsureCart が呼ばれるまで作らない。
func CartSession(reg CartRegistry, cfg CartSessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			//毎回期限を延ばす
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(CtxSessionIDKey, id)
			c.Set(ctxRegistryKey, reg)
			if store, ok := reg.Touch(id); ok {
				c.Set(CtxCartKey, store)
			}
			return next(c)
		}
	}
}

// SessionIDFromContext は CartSession が決めたセッションID
func SessionIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxSessionIDKey).(string)
	return id, ok && id != ""
}

// CartFromContext は既存のカートを取り出す。まだ無ければ ok=false（IDは返す）
func CartFromContext(c echo.Context) (*cart.Store, string, bool) {
	id, _ := c.Get(CtxSessionIDKey).(string)
	store, ok := c.Get(CtxCartKey).(*cart.Store)
	if !ok || store == nil {
		return nil, id, false
	}
	return store, id, true
}

// EnsureCart は書き込み用。無ければここで作る。CartSession を通っていなければ ok=false
func EnsureCart(c echo.Context) (*cart.Store, string, bool) {
	if store, id, ok := CartFromContext(c); ok {
		return store, id, true
	}
	id, ok := SessionIDFromContext(c)
	if !ok {
		return nil, "", false
	}
	reg, ok := c.Get(ctxRegistryKey).(CartRegistry)
	if !ok || reg == nil {
		return nil, "", false
	}

	store := reg.GetOrCreate(id)
	c.Set(CtxCartKey, store)
	return store, id, true
}
