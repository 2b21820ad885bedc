package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// SessionManager hands out one ChecklistSession per owner/property scope and
// keeps it alive across requests so debounce windows span the whole session.
type SessionManager struct {
	catalog *domain.Catalog
	store   ports.ChecklistStore
	docs    ports.DocumentStore
	storage ports.ObjectStorage
	cfg     SessionConfig
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*ChecklistSession
}

func NewSessionManager(
	catalog *domain.Catalog,
	store ports.ChecklistStore,
	docs ports.DocumentStore,
	storage ports.ObjectStorage,
	cfg SessionConfig,
	logger *slog.Logger,
) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		catalog:  catalog,
		store:    store,
		docs:     docs,
		storage:  storage,
		cfg:      cfg.normalize(),
		logger:   logger,
		sessions: make(map[string]*ChecklistSession),
	}
}

// Session returns the live session for a scope, creating and hydrating it on
// first use.
func (m *SessionManager) Session(ctx context.Context, ownerID, propertyID string) (*ChecklistSession, error) {
	key := ownerID + "\x00" + propertyID

	m.mu.Lock()
	if session, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	// Hydration runs outside the manager lock; a racing creator for the
	// same scope loses and its session is discarded before first use.
	session, err := NewChecklistSession(ctx, ownerID, propertyID, m.catalog, m.store, m.docs, m.storage, m.cfg, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key]; ok {
		return existing, nil
	}
	m.sessions[key] = session
	return session, nil
}

// CloseAll flushes and shuts down every live session.
func (m *SessionManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*ChecklistSession, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*ChecklistSession)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close(ctx)
	}
}
