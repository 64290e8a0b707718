package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrNoRecord reports that no cart record exists for the given id. The store
// treats it as an empty cart, never as a failure.
var ErrNoRecord = errors.New("no cart record")

// Storage persists one JSON cart record per cart id. Implementations must
// keep the record durable across requests; the store does the rest.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]byte, error)
	Save(ctx context.Context, cartID string, record []byte) error
	Delete(ctx context.Context, cartID string) error
}

// MemoryStorage keeps records in a plain map. It backs unit tests and local
// runs without a redis instance; records last as long as the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(ctx context.Context, cartID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[cartID]
	if !ok {
		return nil, ErrNoRecord
	}

	cp := make([]byte, len(rec))
	copy(cp, rec)
	return cp, nil
}

func (m *MemoryStorage) Save(ctx context.Context, cartID string, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(record))
	copy(cp, record)
	m.records[cartID] = cp
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, cartID)
	return nil
}
