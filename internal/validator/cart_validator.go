package validator

import (
	"errors"
	"math"
	"strings"

	"storefront/internal/domain/cart"
)

var ErrInvalidProduct = errors.New("invalid product")

const maxProductIDLen = 128

// ValidateCartProduct はカートに入れる商品を検証する。
// id は必須、価格は0以上の有限値。
func ValidateCartProduct(p cart.Product) (cart.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" || len(p.ID) > maxProductIDLen {
		return cart.Product{}, ErrInvalidProduct
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return cart.Product{}, ErrInvalidProduct
	}
	return p, nil
}
