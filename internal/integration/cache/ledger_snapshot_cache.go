// Package cache implements cache adapters backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
)

const snapshotKeyPrefix = "ledger:snapshot:"

type snapshotBusiness struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type snapshotTransaction struct {
	ID          string          `json:"id"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	BusinessID  string          `json:"business_id"`
}

type snapshotPayload struct {
	Businesses   []snapshotBusiness    `json:"businesses"`
	Transactions []snapshotTransaction `json:"transactions"`
}

// ledgerSnapshotCache implements the adapter.LedgerSnapshotCache interface.
type ledgerSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLedgerSnapshotCache creates a Redis-backed snapshot cache. Entries expire after ttl.
func NewLedgerSnapshotCache(client *redis.Client, ttl time.Duration) adapter.LedgerSnapshotCache {
	return &ledgerSnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(userID uuid.UUID) string {
	return snapshotKeyPrefix + userID.String()
}

// Get returns the cached snapshot, or nil when nothing is cached.
func (c *ledgerSnapshotCache) Get(ctx context.Context, userID uuid.UUID) (*adapter.LedgerSnapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode ledger snapshot: %w", err)
	}

	snapshot := &adapter.LedgerSnapshot{
		Businesses:   make([]entity.Business, len(payload.Businesses)),
		Transactions: make([]entity.Transaction, len(payload.Transactions)),
	}
	for i, b := range payload.Businesses {
		snapshot.Businesses[i] = entity.Business{ID: b.ID, Name: b.Name, Color: entity.BusinessColor(b.Color)}
	}
	for i, t := range payload.Transactions {
		snapshot.Transactions[i] = entity.Transaction{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Category:    t.Category,
			Type:        entity.TransactionType(t.Type),
			Amount:      t.Amount,
			BusinessID:  t.BusinessID,
		}
	}
	return snapshot, nil
}

// Set stores the snapshot.
func (c *ledgerSnapshotCache) Set(ctx context.Context, userID uuid.UUID, snapshot *adapter.LedgerSnapshot) error {
	payload := snapshotPayload{
		Businesses:   make([]snapshotBusiness, len(snapshot.Businesses)),
		Transactions: make([]snapshotTransaction, len(snapshot.Transactions)),
	}
	for i, b := range snapshot.Businesses {
		payload.Businesses[i] = snapshotBusiness{ID: b.ID, Name: b.Name, Color: string(b.Color)}
	}
	for i, t := range snapshot.Transactions {
		payload.Transactions[i] = snapshotTransaction{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Category:    t.Category,
			Type:        string(t.Type),
			Amount:      t.Amount,
			BusinessID:  t.BusinessID,
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode ledger snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ledger snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot.
func (c *ledgerSnapshotCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ledger snapshot: %w", err)
	}
	return nil
}
