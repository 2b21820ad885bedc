package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// ChecklistSession owns one owner/property scope's mutable checklist state:
// the checked map, staged suggestions, applied extracted values and the
// debounced pending-write buffer. Nothing outside this type mutates them.
//
// Per item id the session enforces a small state machine: an unchecked item
// may carry at most one staged suggestion; checking the item by any path
// absorbs the stage. A checked item never holds a stage.
type ChecklistSession struct {
	ownerID    string
	propertyID string
	catalog    *domain.Catalog
	store      ports.ChecklistStore
	docs       ports.DocumentStore
	storage    ports.ObjectStorage
	logger     *slog.Logger

	toggleDelay time.Duration
	bulkDelay   time.Duration
	now         func() time.Time

	mu        sync.Mutex
	checked   map[string]bool
	extracted map[string]string
	staged    map[string]domain.PendingSuggestion
	pending   map[string]bool
	timer     *time.Timer
	flushing  bool
	rearm     bool
	closed    bool
}

// SessionConfig carries the sync-layer tuning knobs.
type SessionConfig struct {
	ToggleFlushDelay time.Duration
	BulkFlushDelay   time.Duration
}

func (c SessionConfig) normalize() SessionConfig {
	if c.ToggleFlushDelay <= 0 {
		c.ToggleFlushDelay = 500 * time.Millisecond
	}
	if c.BulkFlushDelay <= 0 {
		c.BulkFlushDelay = 300 * time.Millisecond
	}
	return c
}

// NewChecklistSession builds a session and loads persisted checked state.
// An empty ownerID degrades the session to pure in-memory state: nothing is
// buffered and no persistence is attempted.
func NewChecklistSession(
	ctx context.Context,
	ownerID, propertyID string,
	catalog *domain.Catalog,
	store ports.ChecklistStore,
	docs ports.DocumentStore,
	storage ports.ObjectStorage,
	cfg SessionConfig,
	logger *slog.Logger,
) (*ChecklistSession, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.normalize()

	s := &ChecklistSession{
		ownerID:     ownerID,
		propertyID:  propertyID,
		catalog:     catalog,
		store:       store,
		docs:        docs,
		storage:     storage,
		logger:      logger,
		toggleDelay: cfg.ToggleFlushDelay,
		bulkDelay:   cfg.BulkFlushDelay,
		now:         time.Now,
		checked:     make(map[string]bool),
		extracted:   make(map[string]string),
		staged:      make(map[string]domain.PendingSuggestion),
		pending:     make(map[string]bool),
	}

	if ownerID != "" && store != nil {
		saved, err := store.LoadCheckedState(ctx, ownerID, propertyID)
		if err != nil {
			return nil, fmt.Errorf("load checked state: %w", err)
		}
		for id, isChecked := range saved {
			if s.catalog.HasItem(id) {
				s.checked[id] = isChecked
			}
		}
	}
	return s, nil
}

// Toggle flips one item's checked state. A manual toggle always wins over a
// staged suggestion for that id: the stage is removed regardless of the new
// value, and a previously-applied suggestion is never resurrected.
func (s *ChecklistSession) Toggle(itemID string) (bool, error) {
	if !s.catalog.HasItem(itemID) {
		return false, domain.WrapError(domain.ErrInvalidInput, "toggle item", fmt.Errorf("unknown item id %q", itemID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := !s.checked[itemID]
	s.setCheckedLocked(itemID, next)
	s.bufferWriteLocked(itemID, next, s.toggleDelay)
	return next, nil
}

// ResetAll unchecks every item and drops all staged suggestions. Unchecks
// for previously-checked items are buffered so the store converges.
func (s *ChecklistSession) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, isChecked := range s.checked {
		if isChecked {
			s.bufferWriteLocked(id, false, s.toggleDelay)
		}
	}
	s.checked = make(map[string]bool)
	s.extracted = make(map[string]string)
	s.staged = make(map[string]domain.PendingSuggestion)
}

// setCheckedLocked is the one mutation path for the checked map. It keeps
// the stage-implies-unchecked invariant: any transition removes the stage.
func (s *ChecklistSession) setCheckedLocked(itemID string, checked bool) {
	if checked {
		s.checked[itemID] = true
	} else {
		delete(s.checked, itemID)
	}
	delete(s.staged, itemID)
}

// CheckedState returns a copy of the current checked map.
func (s *ChecklistSession) CheckedState() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.checked))
	for id, v := range s.checked {
		out[id] = v
	}
	return out
}

// ExtractedValues returns a copy of the applied evidentiary values.
func (s *ChecklistSession) ExtractedValues() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.extracted))
	for id, v := range s.extracted {
		out[id] = v
	}
	return out
}

// StagedSuggestions returns the staged set ordered by item id.
func (s *ChecklistSession) StagedSuggestions() []domain.PendingSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PendingSuggestion, 0, len(s.staged))
	for _, suggestion := range s.staged {
		out = append(out, suggestion)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Readiness scores the session's checklist completion.
func (s *ChecklistSession) Readiness() domain.ReadinessScore {
	return domain.ScoreReadiness(s.catalog, s.CheckedState())
}
