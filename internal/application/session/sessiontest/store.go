// Package sessiontest provides an in-memory ledger store for use case tests.
package sessiontest

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
)

// ErrUnavailable is returned by every write while FailWrites is set.
var ErrUnavailable = errors.New("store unavailable")

// Store keeps businesses and transactions per user.
type Store struct {
	mu           sync.Mutex
	businesses   map[uuid.UUID][]entity.Business
	transactions map[uuid.UUID][]entity.Transaction
	failWrites   bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		businesses:   map[uuid.UUID][]entity.Business{},
		transactions: map[uuid.UUID][]entity.Transaction{},
	}
}

// FailWrites makes every subsequent write return ErrUnavailable.
func (s *Store) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Businesses returns the stored businesses of a user in display order.
func (s *Store) Businesses(userID uuid.UUID) []entity.Business {
	out, _ := businessRepo{s}.FindAllByUser(context.Background(), userID)
	return out
}

// Transactions returns the stored transactions of a user.
func (s *Store) Transactions(userID uuid.UUID) []entity.Transaction {
	out, _ := transactionRepo{s}.FindAllByUser(context.Background(), userID)
	return out
}

// BusinessRepository returns a repository view of the store.
func (s *Store) BusinessRepository() adapter.BusinessRepository {
	return businessRepo{s}
}

// TransactionRepository returns a repository view of the store.
func (s *Store) TransactionRepository() adapter.TransactionRepository {
	return transactionRepo{s}
}

// NewManager creates a session manager backed by the store, without a cache.
func (s *Store) NewManager(config session.Config) *session.Manager {
	hydrator := session.NewHydrator(s.BusinessRepository(), s.TransactionRepository(), nil, nil)
	return session.NewManager(hydrator, config)
}

type businessRepo struct{ s *Store }

func (r businessRepo) Create(_ context.Context, userID uuid.UUID, b entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	r.s.businesses[userID] = append(r.s.businesses[userID], b)
	return nil
}

func (r businessRepo) Update(_ context.Context, userID uuid.UUID, b entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	for i := range r.s.businesses[userID] {
		if r.s.businesses[userID][i].ID == b.ID {
			r.s.businesses[userID][i] = b
		}
	}
	return nil
}

func (r businessRepo) Delete(_ context.Context, userID uuid.UUID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	kept := r.s.businesses[userID][:0]
	for _, b := range r.s.businesses[userID] {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	r.s.businesses[userID] = kept

	txs := r.s.transactions[userID][:0]
	for _, t := range r.s.transactions[userID] {
		if t.BusinessID != id {
			txs = append(txs, t)
		}
	}
	r.s.transactions[userID] = txs
	return nil
}

func (r businessRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.Business(nil), r.s.businesses[userID]...), nil
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) Create(_ context.Context, userID uuid.UUID, t entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	r.s.transactions[userID] = append(r.s.transactions[userID], t)
	return nil
}

func (r transactionRepo) Update(_ context.Context, userID uuid.UUID, t entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	for i := range r.s.transactions[userID] {
		if r.s.transactions[userID][i].ID == t.ID {
			r.s.transactions[userID][i] = t
		}
	}
	return nil
}

func (r transactionRepo) Delete(_ context.Context, userID uuid.UUID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return ErrUnavailable
	}
	kept := r.s.transactions[userID][:0]
	for _, t := range r.s.transactions[userID] {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.s.transactions[userID] = kept
	return nil
}

func (r transactionRepo) FindAllByUser(_ context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.Transaction(nil), r.s.transactions[userID]...), nil
}
