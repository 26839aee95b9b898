// Package mirror keeps a read-mostly local copy of one entity family in sync
// with the backend. The backend is always authoritative: optimistic patches
// are provisional until the next refresh confirms or overrides them.
package mirror

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"ndt-portal-backend/internal/gateway"
)

// Mirror is instantiated once per entity family and filter. All methods are
// safe for concurrent use.
type Mirror[T gateway.Record, F any, N any, P gateway.Patch[T]] struct {
	store  gateway.Store[T, F, N, P]
	family string
	log    *zap.SugaredLogger

	mu      sync.RWMutex
	filter  F
	items   []T
	loading bool
	lastErr error
	unsub   func()
}

func New[T gateway.Record, F any, N any, P gateway.Patch[T]](
	store gateway.Store[T, F, N, P],
	family string,
	filter F,
	log *zap.SugaredLogger,
) *Mirror[T, F, N, P] {
	return &Mirror[T, F, N, P]{
		store:  store,
		family: family,
		filter: filter,
		log:    log,
	}
}

// Refresh replaces the local collection wholesale with the backend's answer
// for the current filter. On failure the stale items stay in place so a
// consumer never flickers to empty, and the error is recorded.
func (m *Mirror[T, F, N, P]) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	filter := m.filter
	m.mu.Unlock()

	items, err := m.store.List(ctx, filter)
	if ctx.Err() != nil {
		// Consumer is gone; do not touch state.
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		return err
	}
	m.items = items
	m.lastErr = nil
	return nil
}

// SetFilter replaces the filter and refreshes under it.
func (m *Mirror[T, F, N, P]) SetFilter(ctx context.Context, filter F) error {
	m.mu.Lock()
	m.filter = filter
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// Create inserts through the gateway and then refreshes the whole collection,
// so the mirror picks up server-assigned fields and ordering rather than
// guessing at them locally.
func (m *Mirror[T, F, N, P]) Create(ctx context.Context, fields N) (T, error) {
	created, err := m.store.Create(ctx, fields)
	if err != nil {
		return created, err
	}
	if ctx.Err() != nil {
		return created, ctx.Err()
	}
	if err := m.Refresh(ctx); err != nil {
		m.log.Warnw("refresh after create failed", "family", m.family, "error", err)
	}
	return created, nil
}

// Update patches through the gateway and, on success, shallow-merges the
// patch into the matching local item. No refresh: the common single-field
// edit reflects immediately, and the next push-triggered refresh reconciles
// anything the server changed beyond the patch.
func (m *Mirror[T, F, N, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	updated, err := m.store.Update(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	if ctx.Err() != nil {
		return updated, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.RecordID() == id {
			m.items[i] = patch.Apply(item)
			break
		}
	}
	return updated, nil
}

// Delete removes through the gateway and, on success, drops exactly the
// matching local item, preserving the order of the rest.
func (m *Mirror[T, F, N, P]) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.RecordID() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

// Subscribe opens the change-notification channel for the mirror's family.
// Every inbound event, whatever client caused it, triggers a refresh with the
// current filter; that refresh is the sole reconciliation mechanism against
// concurrent remote writes.
func (m *Mirror[T, F, N, P]) Subscribe(ctx context.Context, notifier gateway.Notifier) error {
	unsub, err := notifier.Subscribe(m.family, func(ev gateway.Event) {
		if err := m.Refresh(ctx); err != nil {
			m.log.Debugw("push-triggered refresh failed",
				"family", m.family, "action", ev.Action, "error", err)
		}
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()
	return nil
}

// Close releases the change-notification subscription, if any.
func (m *Mirror[T, F, N, P]) Close() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Items returns a copy of the mirrored collection.
func (m *Mirror[T, F, N, P]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Loading reports whether a refresh is in flight.
func (m *Mirror[T, F, N, P]) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// LastError returns the most recent operation error, or nil after a
// successful refresh.
func (m *Mirror[T, F, N, P]) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}
