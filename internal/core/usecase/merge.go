package usecase

import (
	"context"
	"fmt"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// Preview stages a document's suggestions without touching checked state.
// Only currently-unchecked items are staged; a later preview overwrites an
// earlier stage for the same item, so the last preview wins. Previewing the
// same document twice is a no-op beyond the overwrite.
func (s *ChecklistSession) Preview(ctx context.Context, documentID string) ([]domain.PendingSuggestion, error) {
	doc, err := s.analyzedDocument(ctx, "preview suggestions", documentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, suggestion := range doc.Analysis.CompletedItems {
		if s.checked[suggestion.ItemID] {
			continue
		}
		s.staged[suggestion.ItemID] = domain.PendingSuggestion{
			ItemID:             suggestion.ItemID,
			Confidence:         suggestion.Confidence,
			ExtractedValue:     suggestion.ExtractedValue,
			SourceDocumentID:   doc.ID,
			SourceDocumentName: doc.Name,
		}
	}
	return s.stagedLocked(), nil
}

// ApplyResult reports what one apply call changed.
type ApplyResult struct {
	AppliedItems []string `json:"applied_items"`
	Skipped      int      `json:"skipped"`
}

// Apply checks every item a document's analysis suggests and records the
// non-empty extracted values. Items already checked are skipped, and a
// document whose Applied flag is already set is a plain no-op, so a second
// apply of the same document never re-checks anything. The flag is set only
// when the analysis carried at least one suggestion.
func (s *ChecklistSession) Apply(ctx context.Context, documentID string) (ApplyResult, error) {
	const op = "apply suggestions"

	doc, err := s.analyzedDocument(ctx, op, documentID)
	if err != nil {
		return ApplyResult{}, err
	}
	if doc.Applied {
		s.logger.Debug("document already applied", "document_id", documentID)
		return ApplyResult{AppliedItems: []string{}}, nil
	}

	s.mu.Lock()
	result := s.applySuggestionsLocked(doc.Analysis.CompletedItems)
	s.mu.Unlock()

	if len(doc.Analysis.CompletedItems) > 0 && s.docs != nil {
		if err := s.docs.MarkApplied(ctx, documentID); err != nil {
			if domain.IsKind(err, domain.ErrDocumentNotFound) {
				s.logger.Debug("document removed before apply flag persisted", "document_id", documentID)
			} else {
				s.logger.Error("mark document applied", "document_id", documentID, "error", err)
			}
		}
	}
	return result, nil
}

// ApplyAllStaged checks every staged item in one pass.
func (s *ChecklistSession) ApplyAllStaged() ApplyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	suggestions := make([]domain.Suggestion, 0, len(s.staged))
	for _, staged := range s.staged {
		suggestions = append(suggestions, domain.Suggestion{
			ItemID:         staged.ItemID,
			Confidence:     staged.Confidence,
			ExtractedValue: staged.ExtractedValue,
		})
	}
	return s.applySuggestionsLocked(suggestions)
}

// DismissStaged drops one staged suggestion without changing checked state.
func (s *ChecklistSession) DismissStaged(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, itemID)
}

// DismissAllStaged clears the whole staging set without changing checked
// state.
func (s *ChecklistSession) DismissAllStaged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[string]domain.PendingSuggestion)
}

// RemoveDocument deletes a document record and its stored payload. Stages
// sourced from an unapplied document are withdrawn; checklist items checked
// by an applied document stay checked. Evidence removal never reverts state.
func (s *ChecklistSession) RemoveDocument(ctx context.Context, documentID string) error {
	const op = "remove document"

	if s.docs == nil {
		return domain.WrapError(domain.ErrDocumentNotFound, op, fmt.Errorf("no document store"))
	}
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return domain.WrapError(domain.ErrDocumentNotFound, op, err)
	}

	if !doc.Applied {
		s.mu.Lock()
		for id, staged := range s.staged {
			if staged.SourceDocumentID == doc.ID {
				delete(s.staged, id)
			}
		}
		s.mu.Unlock()
	}

	if err := s.docs.Delete(ctx, documentID); err != nil && !domain.IsKind(err, domain.ErrDocumentNotFound) {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
	if s.storage != nil && doc.StoragePath != "" {
		if err := s.storage.Remove(ctx, doc.StoragePath); err != nil {
			s.logger.Warn("remove stored payload", "document_id", documentID, "error", err)
		}
	}
	return nil
}

// applySuggestionsLocked is the shared core of Apply and ApplyAllStaged.
// Each batch of checks is buffered with the bulk flush delay.
func (s *ChecklistSession) applySuggestionsLocked(suggestions []domain.Suggestion) ApplyResult {
	result := ApplyResult{AppliedItems: []string{}}
	for _, suggestion := range suggestions {
		if !s.catalog.HasItem(suggestion.ItemID) || s.checked[suggestion.ItemID] {
			result.Skipped++
			continue
		}
		s.setCheckedLocked(suggestion.ItemID, true)
		if suggestion.ExtractedValue != "" {
			s.extracted[suggestion.ItemID] = suggestion.ExtractedValue
		}
		s.bufferWriteLocked(suggestion.ItemID, true, s.bulkDelay)
		result.AppliedItems = append(result.AppliedItems, suggestion.ItemID)
	}
	return result
}

func (s *ChecklistSession) stagedLocked() []domain.PendingSuggestion {
	out := make([]domain.PendingSuggestion, 0, len(s.staged))
	for _, suggestion := range s.staged {
		out = append(out, suggestion)
	}
	return out
}

// analyzedDocument fetches a document and verifies it is in a state whose
// suggestions can be merged.
func (s *ChecklistSession) analyzedDocument(ctx context.Context, op, documentID string) (*domain.UploadedDocument, error) {
	if s.docs == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, op, fmt.Errorf("no document store"))
	}
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, op, err)
	}
	if doc.Status != domain.StatusDone || doc.Analysis == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, op,
			fmt.Errorf("document %s has no completed analysis", documentID))
	}
	return doc, nil
}
