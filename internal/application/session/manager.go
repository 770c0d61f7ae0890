// Package session keeps one ledger engine per signed-in user and serialises
// every request that touches it.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/domain/ledger"
)

// Config holds the session manager settings.
type Config struct {
	IdleTimeout      time.Duration
	JanitorInterval  time.Duration
	ResyncAfterWrite bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithObserver reports mutation outcomes.
func WithObserver(observer adapter.LedgerObserver) Option {
	return func(m *Manager) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithEngineFactory replaces the constructor used for new sessions.
func WithEngineFactory(newEngine func() *ledger.Engine) Option {
	return func(m *Manager) {
		m.newEngine = newEngine
	}
}

type ledgerSession struct {
	mu       sync.Mutex
	userID   uuid.UUID
	engine   *ledger.Engine
	lastUsed time.Time
	refs     int
	evicted  bool
}

// Manager owns the ledger engines of all active users.
type Manager struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*ledgerSession
	hydrator  *Hydrator
	config    Config
	observer  adapter.LedgerObserver
	now       func() time.Time
	newEngine func() *ledger.Engine
}

// NewManager creates a session manager.
func NewManager(hydrator *Hydrator, config Config, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*ledgerSession),
		hydrator: hydrator,
		config:   config,
		observer: nopObserver{},
		now:      time.Now,
		newEngine: func() *ledger.Engine {
			return ledger.NewEngine()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// View runs fn with exclusive access to the user's engine, hydrating it on first use.
func (m *Manager) View(ctx context.Context, userID uuid.UUID, fn func(*ledger.Engine) error) error {
	s := m.acquire(userID)
	defer m.release(s)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		engine, err := m.hydrate(ctx, userID)
		if err != nil {
			return err
		}
		s.engine = engine
	}
	return fn(s.engine)
}

// Mutation describes an optimistic engine change and the remote write that confirms it.
type Mutation struct {
	// Operation names the change in logs and metrics.
	Operation string
	// Apply changes the engine. Returning an error aborts the mutation before any remote call.
	Apply func(engine *ledger.Engine) error
	// Persist writes the change remotely. On error the engine is restored.
	Persist func(ctx context.Context) error
	// Resync re-fetches every transaction after a successful write when enabled in Config.
	Resync bool
}

// Mutate applies mut to the user's engine and persists it. A failed remote write
// restores the engine and returns a remote persistence error.
func (m *Manager) Mutate(ctx context.Context, userID uuid.UUID, mut Mutation) error {
	return m.View(ctx, userID, func(engine *ledger.Engine) error {
		snapshot := engine.Snapshot()

		if err := mut.Apply(engine); err != nil {
			m.observer.ObserveMutation(mut.Operation, "rejected")
			return err
		}

		if mut.Persist != nil {
			if err := mut.Persist(ctx); err != nil {
				engine.Restore(snapshot)
				m.observer.ObserveMutation(mut.Operation, "remote_error")
				slog.Warn("Remote write failed, ledger change reverted",
					"operation", mut.Operation,
					"user_id", userID,
					"error", err,
				)
				return domainerror.NewRemotePersistenceError(mut.Operation, err)
			}
		}

		m.hydrator.Invalidate(ctx, userID)
		if mut.Resync && m.config.ResyncAfterWrite {
			m.resync(ctx, userID, engine)
		}

		m.observer.ObserveMutation(mut.Operation, "ok")
		return nil
	})
}

// Evict drops the user's session. The next request hydrates it again.
// A session still in use is dropped once its last request completes.
func (m *Manager) Evict(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return
	}
	if s.refs > 0 {
		s.evicted = true
		return
	}
	delete(m.sessions, userID)
}

// Cleanup evicts sessions that have been idle longer than the configured timeout
// and are not in use. It returns the number of evicted sessions.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.config.IdleTimeout)
	evicted := 0
	for userID, s := range m.sessions {
		if s.refs == 0 && s.lastUsed.Before(cutoff) {
			delete(m.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor evicts idle sessions periodically. It blocks until the context is cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	interval := m.config.JanitorInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Ledger session janitor shutting down")
			return
		case <-ticker.C:
			if n := m.Cleanup(); n > 0 {
				slog.Debug("Evicted idle ledger sessions", "count", n)
			}
		}
	}
}

func (m *Manager) acquire(userID uuid.UUID) *ledgerSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = &ledgerSession{userID: userID}
		m.sessions[userID] = s
	}
	s.refs++
	s.lastUsed = m.now()
	return s
}

func (m *Manager) release(s *ledgerSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	s.lastUsed = m.now()
	if s.refs == 0 && s.evicted && m.sessions[s.userID] == s {
		delete(m.sessions, s.userID)
	}
}

func (m *Manager) hydrate(ctx context.Context, userID uuid.UUID) (*ledger.Engine, error) {
	snapshot, err := m.hydrator.Load(ctx, userID)
	if err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeRemoteLoad, "failed to load ledger", err)
	}

	engine := m.newEngine()
	if err := engine.Load(snapshot.Businesses, snapshot.Transactions); err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeRemoteLoad, "stored ledger is inconsistent", err)
	}
	return engine, nil
}

func (m *Manager) resync(ctx context.Context, userID uuid.UUID, engine *ledger.Engine) {
	transactions, err := m.hydrator.ReloadTransactions(ctx, userID)
	if err != nil {
		slog.Warn("Transaction resync failed, keeping local state", "user_id", userID, "error", err)
		return
	}
	if err := engine.ReplaceTransactions(transactions); err != nil {
		slog.Warn("Resynced transactions rejected, keeping local state", "user_id", userID, "error", err)
	}
}
