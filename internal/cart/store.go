// Package cart holds the session cart: its line items, derived totals and
// drawer visibility, persisted to session storage after every item change.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/nikolayk812/extract-cart/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// StorageKey is the session storage key the cart lives under.
const StorageKey = "cart-storage"

// Listener receives a copy of the cart after each state change.
type Listener func(cart domain.Cart)

type change int

const (
	changeNone change = iota
	changeItems
	changeVisibility
)

type listenerEntry struct {
	id int
	fn Listener
}

type Store struct {
	mu sync.Mutex

	storage  port.SessionStorage
	key      string
	logger   *zap.Logger
	now      func() time.Time
	newID    func() uuid.UUID
	currency currency.Unit

	items  []domain.CartItem
	isOpen bool

	listeners    []listenerEntry
	lastListener int
	// changes counts state changes; each one gets the next ticket.
	changes uint64

	// notifyMu serialises delivery so listeners see changes in ticket order.
	notifyMu  sync.Mutex
	notified  *sync.Cond
	delivered uint64
}

// New builds a store and rehydrates it from storage. Missing or corrupt
// state yields an empty, closed cart.
func New(ctx context.Context, storage port.SessionStorage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}

	s := &Store{
		storage:  storage,
		key:      StorageKey,
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.New,
		currency: currency.USD,
	}
	s.notified = sync.NewCond(&s.notifyMu)

	for _, opt := range opts {
		opt(s)
	}

	s.items = s.load(ctx)

	return s, nil
}

func (s *Store) AddItem(ctx context.Context, product domain.Product) {
	s.apply(ctx, func() change {
		if i := s.find(product.ID); i >= 0 {
			s.items[i].Quantity++
			return changeItems
		}

		if _, err := product.PriceAmount(); err != nil {
			s.logger.Warn("unparseable product price counted as zero",
				zap.String("product_id", product.ID),
				zap.String("price", product.Price))
		}

		s.items = append(s.items, domain.CartItem{
			ID:        s.newID(),
			Product:   product,
			Quantity:  1,
			CreatedAt: s.now(),
		})
		return changeItems
	})
}

// RemoveItem drops the line for productID. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.apply(ctx, func() change {
		return s.remove(productID)
	})
}

// UpdateQuantity sets the quantity of the line for productID. A quantity
// below 1 removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.apply(ctx, func() change {
		if quantity < 1 {
			return s.remove(productID)
		}

		i := s.find(productID)
		if i < 0 || s.items[i].Quantity == quantity {
			return changeNone
		}

		s.items[i].Quantity = quantity
		return changeItems
	})
}

func (s *Store) ClearCart(ctx context.Context) {
	s.apply(ctx, func() change {
		if len(s.items) == 0 {
			return changeNone
		}

		s.items = nil
		return changeItems
	})
}

func (s *Store) OpenCart() {
	s.setOpen(func(bool) bool { return true })
}

func (s *Store) CloseCart() {
	s.setOpen(func(bool) bool { return false })
}

func (s *Store) ToggleCart() {
	s.setOpen(func(open bool) bool { return !open })
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isOpen
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems()
}

// TotalPrice is recomputed from the current lines on every call. Lines with
// an unparseable price count as zero; that is warned about once, on add.
func (s *Store) TotalPrice() decimal.Decimal {
	total, unpriced := s.Snapshot().TotalPrice()
	if len(unpriced) > 0 {
		s.logger.Debug("unparseable product prices counted as zero",
			zap.Strings("product_ids", unpriced))
	}

	return total
}

func (s *Store) Total() domain.Money {
	return domain.Money{
		Amount:   s.TotalPrice(),
		Currency: s.currency,
	}
}

// Subscribe registers l for change notifications. Listeners run one at a
// time, in the order the changes happened. A listener may read the store but
// must not mutate it. The returned func removes it and is safe to call more
// than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastListener++
	id := s.lastListener
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.listeners = slices.DeleteFunc(s.listeners, func(e listenerEntry) bool {
				return e.id == id
			})
		})
	}
}

func (s *Store) setOpen(next func(open bool) bool) {
	s.apply(context.Background(), func() change {
		open := next(s.isOpen)
		if open == s.isOpen {
			return changeNone
		}

		s.isOpen = open
		return changeVisibility
	})
}

// apply runs fn under the lock, persists item changes and then notifies
// listeners outside the lock so they can read the store.
func (s *Store) apply(ctx context.Context, fn func() change) {
	s.mu.Lock()

	c := fn()
	if c == changeNone {
		s.mu.Unlock()
		return
	}

	if c == changeItems {
		s.persist(ctx)
	}

	listeners := make([]Listener, 0, len(s.listeners))
	for _, e := range s.listeners {
		listeners = append(listeners, e.fn)
	}
	snapshot := s.snapshot()

	s.changes++
	ticket := s.changes

	s.mu.Unlock()

	s.notify(ticket, listeners, snapshot)
}

// notify waits until every earlier change has been delivered, then hands
// snapshot to listeners. s.mu is not held, so listeners can read the store
// while later mutations queue behind them.
func (s *Store) notify(ticket uint64, listeners []Listener, snapshot domain.Cart) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	for s.delivered != ticket-1 {
		s.notified.Wait()
	}

	defer func() {
		s.delivered = ticket
		s.notified.Broadcast()
	}()

	for _, l := range listeners {
		l(cloneCart(snapshot))
	}
}

func (s *Store) remove(productID string) change {
	i := s.find(productID)
	if i < 0 {
		return changeNone
	}

	s.items = slices.Delete(s.items, i, i+1)
	return changeItems
}

func (s *Store) find(productID string) int {
	return domain.Cart{Items: s.items}.Find(productID)
}

func (s *Store) snapshot() domain.Cart {
	return domain.Cart{
		Items:  slices.Clone(s.items),
		IsOpen: s.isOpen,
	}
}

func (s *Store) persist(ctx context.Context) {
	value, err := encodeState(s.items)
	if err != nil {
		s.logger.Error("cart state not encoded", zap.Error(err))
		return
	}

	if err := s.storage.SetItem(ctx, s.key, value); err != nil {
		s.logger.Warn("cart state not persisted",
			zap.String("key", s.key),
			zap.Int("lines", len(s.items)),
			zap.Error(err))
	}
}

func (s *Store) load(ctx context.Context) []domain.CartItem {
	value, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.logger.Warn("cart state not read, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	restored, err := decodeState(value)
	if err != nil {
		s.logger.Warn("discarding corrupt cart state", zap.String("key", s.key), zap.Error(err))

		if err := s.storage.RemoveItem(ctx, s.key); err != nil {
			s.logger.Warn("corrupt cart state not removed", zap.String("key", s.key), zap.Error(err))
		}
		return nil
	}

	s.logger.Debug("cart state restored", zap.String("key", s.key), zap.Int("lines", len(restored.Items)))

	return restored.Items
}

func cloneCart(c domain.Cart) domain.Cart {
	c.Items = slices.Clone(c.Items)
	return c
}
