package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/cart"

	"go.uber.org/zap"
)

type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

// Registry はセッションIDごとにカートを1つ持つ。
// 一定時間触られていないカートは Sweep で捨てる。
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry
}

func NewRegistry(ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]*entry),
	}
}

// Get は既存のカートだけ返す。最終アクセスは更新しない。
func (r *Registry) Get(id string) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Touch は既存のカートだけ返し、最終アクセスを更新する。無ければ何も作らない。
func (r *Registry) Touch(id string) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

// GetOrCreate は無ければ空のカートを作る。
func (r *Registry) GetOrCreate(id string) *cart.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{store: cart.NewStore()}
		r.entries[id] = e
	}
	e.lastSeen = now
	return e.store
}

func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Sweep は TTL を超えて放置されたセッションを消して、消した数を返す。
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// RunSweeper は ctx が終わるまで interval ごとに Sweep する。
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				log.Info("expired carts swept", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		}
	}
}
