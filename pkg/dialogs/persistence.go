package dialogs

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Persistence is the abstract contract between the engine and a
// durable backend. Session-keying (mapping a conversation id to a
// particular Persistence instance) is the host application's
// responsibility, not the engine's.
type Persistence interface {
	// Load returns the persisted state for dialog, or a fresh empty
	// state seeded from dialog's name and version if none exists.
	Load(ctx context.Context, dialog Step) (*DialogState, error)
	// Save persists the entire state tree rooted at state.
	Save(ctx context.Context, state *DialogState) error
}

// InMemoryPersistence is the reference Persistence implementation. It
// holds at most one state slot and is intended for tests and
// single-session examples, mirroring the source's in-memory backend.
type InMemoryPersistence struct {
	mu    sync.Mutex
	state *DialogState
}

// NewInMemoryPersistence returns an empty in-memory persistence slot.
func NewInMemoryPersistence() *InMemoryPersistence {
	return &InMemoryPersistence{}
}

func (p *InMemoryPersistence) Load(_ context.Context, dialog Step) (*DialogState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return NewEmptyState(dialog), nil
	}
	return p.state, nil
}

func (p *InMemoryPersistence) Save(_ context.Context, state *DialogState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	return nil
}

// RetryingPersistence wraps a Persistence with exponential backoff retry
// around Load and Save, for backends (network KV stores, databases) that
// fail transiently. Retry policy mirrors the attempts/initial-backoff
// knobs exposed by internal/config.EngineConfig.
type RetryingPersistence struct {
	inner       Persistence
	maxAttempts uint
	initial     time.Duration
}

// NewRetryingPersistence wraps inner, retrying up to maxAttempts times
// with exponential backoff starting at initialBackoff.
func NewRetryingPersistence(inner Persistence, maxAttempts uint, initialBackoff time.Duration) *RetryingPersistence {
	return &RetryingPersistence{inner: inner, maxAttempts: maxAttempts, initial: initialBackoff}
}

func (p *RetryingPersistence) backoffOpts() []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithMaxTries(p.maxAttempts),
		backoff.WithBackOff(newExponentialBackOff(p.initial)),
	}
}

func newExponentialBackOff(initial time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	return b
}

func (p *RetryingPersistence) Load(ctx context.Context, dialog Step) (*DialogState, error) {
	return backoff.Retry(ctx, func() (*DialogState, error) {
		return p.inner.Load(ctx, dialog)
	}, p.backoffOpts()...)
}

func (p *RetryingPersistence) Save(ctx context.Context, state *DialogState) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, p.inner.Save(ctx, state)
	}, p.backoffOpts()...)
	return err
}
