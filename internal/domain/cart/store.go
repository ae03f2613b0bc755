package cart

import (
	"math"
	"sync"
)

// Product はカートに入れる商品のスナップショット。
// Name / Description / ImageURL はストアでは解釈しない。
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Price       float64 `json:"price"`
}

// Item はカートの明細。
// 価格は最初に追加した時点のものを保持する。
type Item struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal は単価 × 数量。
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Snapshot は提出時に読むカートの写し。
type Snapshot struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Store はセッション1つ分のカート状態を持つ。
// 状態はコマンド（AddItem / RemoveItem / UpdateItemQuantity）経由でしか変わらない。
type Store struct {
	mu         sync.RWMutex
	itemsByID  map[string]Item
	orderedIDs []string
}

func NewStore() *Store {
	return &Store{
		itemsByID:  make(map[string]Item),
		orderedIDs: []string{},
	}
}

// AddItem は商品を1つ追加する。既存なら数量だけ+1（価格は更新しない）。
func (s *Store) AddItem(p Product) Outcome {
	if p.ID == "" {
		return ignored(ReasonEmptyProductID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.itemsByID[p.ID]; ok {
		cur.Quantity = addQuantity(cur.Quantity, 1)
		s.itemsByID[p.ID] = cur
		return applied(cur.Quantity)
	}

	s.itemsByID[p.ID] = Item{Product: p, Quantity: 1}
	s.orderedIDs = append(s.orderedIDs, p.ID)
	return applied(1)
}

// RemoveItem は明細を削除する。無ければ何もしない。
func (s *Store) RemoveItem(ref Product) Outcome {
	return s.remove(ref.ID)
}

// RemoveByID は RemoveItem のID版。
func (s *Store) RemoveByID(productID string) Outcome {
	return s.remove(productID)
}

// UpdateItemQuantity は数量に delta を足す。0以下になったら明細ごと削除。
// 上限は math.MaxInt で頭打ち。
func (s *Store) UpdateItemQuantity(productID string, delta int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.itemsByID[productID]
	if !ok {
		return ignored(ReasonUnknownItem)
	}

	newQty := addQuantity(cur.Quantity, delta)
	if newQty <= 0 {
		s.deleteLocked(productID)
		return removed()
	}

	cur.Quantity = newQty
	s.itemsByID[productID] = cur
	return applied(newQty)
}

// ListItems は追加順の明細を返す。戻り値はコピー。
func (s *Store) ListItems() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked()
}

// CartTotal は sum(単価 × 数量)。丸めはしない。
func (s *Store) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return totalOf(s.listLocked())
}

// Snapshot は明細と合計を同じロック内で取る。
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.listLocked()
	return Snapshot{Items: items, Total: totalOf(items)}
}

// Len は明細の種類数。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orderedIDs)
}

func (s *Store) remove(productID string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.itemsByID[productID]; !ok {
		return ignored(ReasonUnknownItem)
	}
	s.deleteLocked(productID)
	return removed()
}

// 呼び出し側で mu を持っていること
func (s *Store) deleteLocked(productID string) {
	delete(s.itemsByID, productID)

	ids := make([]string, 0, len(s.orderedIDs))
	for _, id := range s.orderedIDs {
		if id != productID {
			ids = append(ids, id)
		}
	}
	s.orderedIDs = ids
}

func (s *Store) listLocked() []Item {
	items := make([]Item, 0, len(s.orderedIDs))
	for _, id := range s.orderedIDs {
		items = append(items, s.itemsByID[id])
	}
	return items
}

// 正の方向だけ飽和させる。負の方向は 0 以下になれば削除なので溢れても結果は同じ
func addQuantity(qty, delta int) int {
	if delta > 0 && qty > math.MaxInt-delta {
		return math.MaxInt
	}
	return qty + delta
}

func totalOf(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
