package history

import (
	"context"
	"sync"

	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

// Mirror is an optional write-behind persistence channel for a session's
// history, the server-side analog of browser-local storage. It is never
// authoritative: the in-memory Store is.
type Mirror interface {
	SaveSnapshot(ctx context.Context, sessionID string, payload []byte) error
	LoadSnapshot(ctx context.Context, sessionID string) ([]byte, error)
}

// Manager keys Stores by session ID. Session state is never shared across
// sessions.
type Manager struct {
	mu         sync.Mutex
	limit      int
	appVersion string
	sessions   map[string]*Store
	mirror     Mirror // nil when persistence is not configured
	logger     *utils.Logger
}

func NewManager(limit int, appVersion string, mirror Mirror, logger *utils.Logger) *Manager {
	return &Manager{
		limit:      limit,
		appVersion: appVersion,
		sessions:   make(map[string]*Store),
		mirror:     mirror,
		logger:     logger,
	}
}

// Get returns the session's store, creating it on first access. If a
// mirrored snapshot exists it is restored, best effort.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	store, ok := m.sessions[sessionID]
	if !ok {
		store = NewStore(m.limit)
		m.sessions[sessionID] = store
	}
	m.mu.Unlock()
	if ok {
		return store
	}

	if m.mirror != nil {
		payload, err := m.mirror.LoadSnapshot(ctx, sessionID)
		if err != nil {
			m.logger.Warn("failed to load history snapshot", "session_id", sessionID, "error", err)
		} else if payload != nil {
			if _, err := store.Import(payload); err != nil {
				m.logger.Warn("failed to restore history snapshot", "session_id", sessionID, "error", err)
			}
		}
	}
	return store
}

// Persist mirrors the session's current state. Mirror failures are logged,
// never raised: mutation already succeeded in memory.
func (m *Manager) Persist(ctx context.Context, sessionID string) {
	if m.mirror == nil {
		return
	}

	m.mu.Lock()
	store, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return
	}

	payload, err := store.Export(m.appVersion)
	if err != nil {
		m.logger.Warn("failed to serialize history snapshot", "session_id", sessionID, "error", err)
		return
	}
	if err := m.mirror.SaveSnapshot(ctx, sessionID, payload); err != nil {
		m.logger.Warn("failed to mirror history snapshot", "session_id", sessionID, "error", err)
	}
}
