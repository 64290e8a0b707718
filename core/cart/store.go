package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotPersisted reports that a mutation applied but its record could not
// be written. The returned cart is still the mutated one: callers should
// surface a warning rather than fail the request, since the change holds
// until the next hydration.
var ErrNotPersisted = errors.New("cart not persisted")

// Store owns every cart of the storefront. Each mutation is a
// load-mutate-persist sequence serialized per cart id, so concurrent
// requests on the same session cannot break the one-line-per-product and
// totals invariants. Carts in different sessions never contend.
type Store struct {
	storage Storage
	log     logrus.FieldLogger

	mu    sync.Mutex
	locks map[string]*cartLock
}

type cartLock struct {
	mu         sync.Mutex
	lastAccess time.Time
}

// lockExpiry is how long an idle per-cart lock survives before the janitor
// drops it. Well above any request lifetime, so an evicted lock is never
// a held one.
const lockExpiry = time.Hour

func NewStore(storage Storage, log logrus.FieldLogger) *Store {
	s := &Store{
		storage: storage,
		log:     log,
		locks:   make(map[string]*cartLock),
	}
	go s.dropIdleLocks()
	return s
}

// Get returns the cart for the given id, hydrated from its persisted record.
// A missing or malformed record yields an empty cart. Never fails.
func (s *Store) Get(ctx context.Context, cartID string) Cart {
	lk := s.lock(cartID)
	defer lk.Unlock()

	return s.load(ctx, cartID)
}

// Add merges the product into the cart and persists the result.
func (s *Store) Add(ctx context.Context, cartID string, p Product, qty int) (Cart, error) {
	lk := s.lock(cartID)
	defer lk.Unlock()

	c := s.load(ctx, cartID)
	c.Add(p, qty)
	return c, s.persist(ctx, cartID, c)
}

// Remove drops the line for the given product id and persists the result.
// Absent ids are a no-op, but the record is still rewritten.
func (s *Store) Remove(ctx context.Context, cartID string, productID string) (Cart, error) {
	lk := s.lock(cartID)
	defer lk.Unlock()

	c := s.load(ctx, cartID)
	c.Remove(productID)
	return c, s.persist(ctx, cartID, c)
}

// SetQuantity overwrites a line's quantity (zero removes it) and persists.
func (s *Store) SetQuantity(ctx context.Context, cartID string, productID string, qty int) (Cart, error) {
	lk := s.lock(cartID)
	defer lk.Unlock()

	c := s.load(ctx, cartID)
	c.SetQuantity(productID, qty)
	return c, s.persist(ctx, cartID, c)
}

// Clear empties the cart and removes its persisted record, the same teardown
// a completed checkout performs.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	lk := s.lock(cartID)
	defer lk.Unlock()

	if err := s.storage.Delete(ctx, cartID); err != nil {
		s.log.WithField("cart_id", cartID).Warnf("clearing cart: %v", err)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, cartID string) Cart {
	rec, err := s.storage.Load(ctx, cartID)
	if errors.Is(err, ErrNoRecord) {
		return Cart{}
	}
	if err != nil {
		s.log.WithField("cart_id", cartID).Warnf("loading cart: %v", err)
		return Cart{}
	}

	var items []LineItem
	if err := json.Unmarshal(rec, &items); err != nil {
		// A record from an older deployment or a tampered one. Recover
		// with an empty cart instead of failing every request.
		s.log.WithField("cart_id", cartID).Warnf("discarding malformed cart record: %v", err)
		return Cart{}
	}

	c := Cart{Items: items}
	c.normalize()
	return c
}

func (s *Store) persist(ctx context.Context, cartID string, c Cart) error {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}

	rec, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart record[%s]: %w", cartID, err)
	}

	if err := s.storage.Save(ctx, cartID, rec); err != nil {
		s.log.WithField("cart_id", cartID).Warnf("persisting cart: %v", err)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (s *Store) lock(cartID string) *sync.Mutex {
	s.mu.Lock()
	lk, ok := s.locks[cartID]
	if !ok {
		lk = &cartLock{}
		s.locks[cartID] = lk
	}
	lk.lastAccess = time.Now()
	s.mu.Unlock()

	lk.mu.Lock()
	return &lk.mu
}

func (s *Store) dropIdleLocks() {
	for {
		time.Sleep(time.Minute)

		s.mu.Lock()
		for id, lk := range s.locks {
			if time.Since(lk.lastAccess) > lockExpiry {
				delete(s.locks, id)
			}
		}
		s.mu.Unlock()
	}
}
