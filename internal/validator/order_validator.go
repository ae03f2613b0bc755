package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
)

var (
	// emailが空か形式不正
	ErrInvalidEmail = errors.New("invalid email")

	// 注文ペイロードが不正
	ErrInvalidOrder = errors.New("invalid order")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxEmailLen = 255

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	return len(s) <= maxEmailLen && emailRe.MatchString(s)
}

// ValidateEmail は前後の空白を落としてチェックし、正規化した値を返す
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !IsEmailLike(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ValidateOrderPayload は注文サービスが受け取るペイロードを検証する
func ValidateOrderPayload(p model.CreateOrderPayload) error {
	if _, err := ValidateEmail(p.BuyerEmail); err != nil {
		return err
	}

	// 必須チェック
	if len(p.Products) == 0 {
		return fmt.Errorf("%w: products is empty", ErrInvalidOrder)
	}

	seen := make(map[string]struct{}, len(p.Products))
	for _, it := range p.Products {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("%w: product id is empty", ErrInvalidOrder)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidOrder)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate product id %s", ErrInvalidOrder, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	if p.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount must be >= 0", ErrInvalidOrder)
	}

	// 作成時はPENDINGのみ（空ならPENDING扱い）
	if p.Status != "" && p.Status != model.OrderStatusPending {
		return fmt.Errorf("%w: status must be PENDING", ErrInvalidOrder)
	}

	return nil
}
