package usecase

import (
	"context"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// bufferWriteLocked records an item's latest checked value for the next
// flush and (re)arms the debounce timer. Writes coalesce per item id, so a
// check followed by an uncheck inside one window persists a single row with
// the final value. Sessions without an owner id skip persistence entirely.
func (s *ChecklistSession) bufferWriteLocked(itemID string, checked bool, delay time.Duration) {
	if s.ownerID == "" || s.store == nil || s.closed {
		return
	}
	s.pending[itemID] = checked

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, s.flushTimerFired)
}

func (s *ChecklistSession) flushTimerFired() {
	s.Flush(context.Background())
}

// Flush drains the pending-write buffer into the store. Concurrent callers
// serialize: a flush arriving while one is in flight marks it for a rerun
// instead of overlapping, so batches reach the store in order.
func (s *ChecklistSession) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.flushing {
		s.rearm = true
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.flushing = false
			s.rearm = false
			s.mu.Unlock()
			return
		}
		batch := s.pending
		s.pending = make(map[string]bool)
		s.mu.Unlock()

		s.writeBatch(ctx, batch)

		s.mu.Lock()
		again := s.rearm || len(s.pending) > 0
		s.rearm = false
		if !again {
			s.flushing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// writeBatch persists one coalesced batch. A store failure is logged and the
// batch dropped; in-memory state stays authoritative and the next toggle
// re-buffers its item, so the UI never blocks on storage.
func (s *ChecklistSession) writeBatch(ctx context.Context, batch map[string]bool) {
	entries := make([]domain.ChecklistEntry, 0, len(batch))
	flushedAt := s.now()
	for itemID, checked := range batch {
		entry := domain.ChecklistEntry{
			ItemID:  itemID,
			PhaseID: domain.PhaseIDForItem(itemID),
			Checked: checked,
		}
		if checked {
			checkedAt := flushedAt
			entry.CheckedAt = &checkedAt
		}
		entries = append(entries, entry)
	}

	if err := s.store.UpsertEntries(ctx, s.ownerID, s.propertyID, entries); err != nil {
		s.logger.Error("persist checklist batch",
			"owner_id", s.ownerID,
			"property_id", s.propertyID,
			"entries", len(entries),
			"error", err,
		)
		return
	}
	s.logger.Debug("checklist batch persisted", "entries", len(entries))
}

// Close stops the debounce timer and flushes whatever is still buffered.
func (s *ChecklistSession) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.Flush(ctx)
}
