package eia

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adolbicare/clinic/internal/platform/websocket"
)

// EventContextChanged is published on the session topic after every SetContext.
const EventContextChanged = "context.changed"

// Snapshot is the navigation context of one session.
type Snapshot struct {
	Module string         `json:"module"`
	Page   string         `json:"page"`
	Data   map[string]any `json:"data"`
}

// DefaultSnapshot is the context of a session that never called SetContext.
func DefaultSnapshot() Snapshot {
	return Snapshot{Module: ModuleDashboard, Page: "Dashboard", Data: map[string]any{}}
}

// ContextStore persists one snapshot per session.
type ContextStore interface {
	// Get reports false when the session has no stored snapshot.
	Get(ctx context.Context, sessionID string) (Snapshot, bool, error)
	Put(ctx context.Context, sessionID string, s Snapshot) error
}

// MemoryContextStore keeps snapshots in process memory.
type MemoryContextStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{snapshots: make(map[string]Snapshot)}
}

func (m *MemoryContextStore) Get(_ context.Context, sessionID string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[sessionID]
	if !ok {
		return Snapshot{}, false, nil
	}
	s.Data = maps.Clone(s.Data)
	return s, true, nil
}

func (m *MemoryContextStore) Put(_ context.Context, sessionID string, s Snapshot) error {
	s.Data = maps.Clone(s.Data)
	m.mu.Lock()
	m.snapshots[sessionID] = s
	m.mu.Unlock()
	return nil
}

// ContextListener is notified after a session's context was replaced.
type ContextListener func(ctx context.Context, sessionID string, s Snapshot)

// Broadcaster owns the current navigation context of every session and fans
// changes out to in-process listeners and websocket clients.
type Broadcaster struct {
	store     ContextStore
	publisher websocket.EventPublisher
	logger    zerolog.Logger

	mu        sync.RWMutex
	listeners []ContextListener
}

// NewBroadcaster builds a broadcaster over store. publisher may be nil.
func NewBroadcaster(store ContextStore, publisher websocket.EventPublisher, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{store: store, publisher: publisher, logger: logger}
}

// Subscribe registers fn for every later context change.
func (b *Broadcaster) Subscribe(fn ContextListener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// SetContext replaces the session's context. A nil data map is stored as an
// empty map; the previous data is never merged in.
func (b *Broadcaster) SetContext(ctx context.Context, sessionID, module, page string, data map[string]any) (Snapshot, error) {
	if data == nil {
		data = map[string]any{}
	}
	s := Snapshot{Module: module, Page: page, Data: data}
	if err := b.store.Put(ctx, sessionID, s); err != nil {
		return Snapshot{}, fmt.Errorf("store context: %w", err)
	}

	b.publish(ctx, sessionID, s)

	b.mu.RLock()
	listeners := append([]ContextListener(nil), b.listeners...)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, sessionID, s)
	}
	return s, nil
}

// Current returns the session's context, or DefaultSnapshot when none was set.
func (b *Broadcaster) Current(ctx context.Context, sessionID string) (Snapshot, error) {
	s, ok, err := b.store.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load context: %w", err)
	}
	if !ok {
		return DefaultSnapshot(), nil
	}
	if s.Data == nil {
		s.Data = map[string]any{}
	}
	return s, nil
}

func (b *Broadcaster) publish(ctx context.Context, sessionID string, s Snapshot) {
	if b.publisher == nil {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		b.logger.Warn().Err(err).Str("session_id", sessionID).Msg("context not publishable")
		return
	}
	err = b.publisher.Publish(ctx, websocket.Event{
		Type:      EventContextChanged,
		Topic:     websocket.SessionTopic(sessionID),
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to publish context change")
	}
}
