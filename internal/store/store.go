// Package store is the authoritative in-process state container. It owns every
// collection plus settings and profile, applies mutations atomically, persists
// after each one and answers derived queries by recomputing from current state.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
)

// ErrNoState is returned by a Persister that has never saved anything.
var ErrNoState = errors.New("no persisted state")

// Persister reads and writes the complete state record.
type Persister interface {
	Load(ctx context.Context) (core.State, error)
	Save(ctx context.Context, state core.State) error
}

// Store serializes all mutations and queries behind one lock, so no caller can
// observe a partially applied mutation.
type Store struct {
	mu       sync.RWMutex
	state    core.State
	revision uint64

	persister Persister
	notifier  Notifier
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for "today" and the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithNotifier registers a receiver for change events.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithIDGenerator overrides the id source. Generated ids must be unique.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New rehydrates a Store from p. Missing or unreadable state starts from empty
// collections and default settings; p may be nil for a purely in-memory store.
func New(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		logger:    log.Discard(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) core.State {
	if s.persister == nil {
		return core.NewState()
	}
	state, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, ErrNoState):
		s.logger.InfoContext(ctx, "No persisted state, starting empty")
		return core.NewState()
	case err != nil:
		s.logger.WarnContext(ctx, "Persisted state unreadable, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		return core.NewState()
	}
	state.Normalize()
	s.logger.InfoContext(ctx, "State loaded",
		"expenses", len(state.Expenses),
		"incomes", len(state.Incomes),
		"budgets", len(state.Budgets),
		"goals", len(state.SavingsGoals),
		"bills", len(state.BillReminders))
	return state
}

// mutate runs fn under the write lock, persists when fn reports a change and
// dispatches the collected events once the lock is released.
func (s *Store) mutate(ctx context.Context, fn func(tx *txn) bool) {
	tx := &txn{store: s, today: core.Today(s.now())}

	s.mu.Lock()
	changed := fn(tx)
	if changed {
		s.revision++
		s.persist(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.dispatch(ctx, tx.events)
	}
}

// Revision counts the mutations that changed state since the store was
// created. Equal revisions mean equal state.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// persist must be called with mu held. Failures are logged and swallowed:
// in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.state.Clone()); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist state",
			log.FieldOperation, log.OpPersist, log.FieldError, err)
	}
}

func (s *Store) dispatch(ctx context.Context, events []Event) {
	if s.notifier == nil {
		return
	}
	for _, e := range events {
		s.notifier.Notify(ctx, e)
	}
}

// txn carries per-mutation context: the calendar day the mutation runs on and
// the events it produced.
type txn struct {
	store  *Store
	today  core.Date
	events []Event
}

func (tx *txn) emit(e Event) {
	e.At = tx.store.now()
	tx.events = append(tx.events, e)
}
