package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
)

var errStoreDown = errors.New("store unavailable")

type memoryStore struct {
	mu           sync.Mutex
	businesses   map[uuid.UUID][]entity.Business
	transactions map[uuid.UUID][]entity.Transaction
	failWrites   bool
	failReads    bool
	loads        int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		businesses:   map[uuid.UUID][]entity.Business{},
		transactions: map[uuid.UUID][]entity.Transaction{},
	}
}

type memoryBusinessRepo struct{ s *memoryStore }

func (r memoryBusinessRepo) Create(_ context.Context, userID uuid.UUID, b entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errStoreDown
	}
	r.s.businesses[userID] = append(r.s.businesses[userID], b)
	return nil
}

func (r memoryBusinessRepo) Update(context.Context, uuid.UUID, entity.Business) error { return nil }
func (r memoryBusinessRepo) Delete(context.Context, uuid.UUID, string) error          { return nil }

func (r memoryBusinessRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.loads++
	if r.s.failReads {
		return nil, errStoreDown
	}
	return append([]entity.Business(nil), r.s.businesses[userID]...), nil
}

type memoryTransactionRepo struct{ s *memoryStore }

func (r memoryTransactionRepo) Create(_ context.Context, userID uuid.UUID, t entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errStoreDown
	}
	r.s.transactions[userID] = append(r.s.transactions[userID], t)
	return nil
}

func (r memoryTransactionRepo) Update(context.Context, uuid.UUID, entity.Transaction) error {
	return nil
}
func (r memoryTransactionRepo) Delete(context.Context, uuid.UUID, string) error { return nil }

func (r memoryTransactionRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failReads {
		return nil, errStoreDown
	}
	return append([]entity.Transaction(nil), r.s.transactions[userID]...), nil
}

type memoryCache struct {
	mu          sync.Mutex
	snapshots   map[uuid.UUID]*adapter.LedgerSnapshot
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{snapshots: map[uuid.UUID]*adapter.LedgerSnapshot{}}
}

func (c *memoryCache) Get(_ context.Context, userID uuid.UUID) (*adapter.LedgerSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[userID], nil
}

func (c *memoryCache) Set(_ context.Context, userID uuid.UUID, s *adapter.LedgerSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[userID] = s
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, userID)
	c.invalidated++
	return nil
}

type recordingObserver struct {
	mu        sync.Mutex
	mutations []string
	hydrated  []string
}

func (o *recordingObserver) ObserveMutation(operation, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mutations = append(o.mutations, operation+":"+outcome)
}

func (o *recordingObserver) ObserveHydration(source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hydrated = append(o.hydrated, source)
}
