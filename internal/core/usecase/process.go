package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// ProcessDocumentUseCase drives one document's extract -> inference ->
// persist sequence. Extraction trouble never aborts the pipeline; all other
// failures set the document's terminal error status without touching any
// other in-flight document or the checklist.
type ProcessDocumentUseCase struct {
	docs      ports.DocumentStore
	storage   ports.ObjectStorage
	extractor ports.ContentExtractor
	analyzer  ports.DocumentAnalyzer
	logger    *slog.Logger
}

func NewProcessDocumentUseCase(
	docs ports.DocumentStore,
	storage ports.ObjectStorage,
	extractor ports.ContentExtractor,
	analyzer ports.DocumentAnalyzer,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		docs:      docs,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
		logger:    logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			// Removed before processing started; nothing to do.
			uc.logger.Debug("document_removed_before_processing", "document_id", documentID)
			return nil
		}
		return fmt.Errorf("fetch document by id: %w", err)
	}

	// Statuses only move forward: a redelivered event for a document that
	// already reached a terminal status is dropped. A document still marked
	// analyzing is a crash retry and runs again.
	if doc.Status != domain.StatusAnalyzing && !domain.CanTransition(doc.Status, domain.StatusAnalyzing) {
		uc.logger.Debug("document_already_processed", "document_id", documentID, "status", string(doc.Status))
		return nil
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusAnalyzing, ""); err != nil {
		return err
	}

	analysis, err := uc.analyze(ctx, doc)
	if err != nil {
		if failErr := uc.markStatus(ctx, documentID, domain.StatusError, userMessageFor(err)); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return err
	}

	if err := uc.saveAnalysis(ctx, documentID, analysis); err != nil {
		return err
	}
	return uc.markStatus(ctx, documentID, domain.StatusDone, "")
}

func (uc *ProcessDocumentUseCase) analyze(ctx context.Context, doc *domain.UploadedDocument) (domain.DocumentAnalysis, error) {
	content := uc.extractContent(ctx, doc)
	analysis, err := uc.analyzer.Analyze(ctx, content, doc.Name, doc.DeclaredType)
	if err != nil {
		return domain.DocumentAnalysis{}, fmt.Errorf("analyze document: %w", err)
	}
	return analysis, nil
}

// extractContent always yields some string: storage trouble becomes the same
// diagnostic placeholder shape the extractor itself produces.
func (uc *ProcessDocumentUseCase) extractContent(ctx context.Context, doc *domain.UploadedDocument) string {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		uc.logger.Warn("open_stored_file_failed", "document_id", doc.ID, "error", err)
		return fmt.Sprintf("[Extraction failed for %s: stored file unavailable]", doc.Name)
	}
	defer reader.Close()
	return uc.extractor.Extract(ctx, reader, doc.Name, doc.DeclaredType)
}

func (uc *ProcessDocumentUseCase) saveAnalysis(ctx context.Context, documentID string, analysis domain.DocumentAnalysis) error {
	if err := uc.docs.SaveAnalysis(ctx, documentID, analysis); err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			uc.logger.Debug("document_removed_mid_flight", "document_id", documentID)
			return nil
		}
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// markStatus discards results for records removed mid-flight: a completion
// that lands after the user deleted the document must leave no orphaned
// state behind.
func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	err := uc.docs.UpdateStatus(ctx, documentID, status, errMessage)
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrDocumentNotFound) {
		uc.logger.Debug("document_removed_mid_flight", "document_id", documentID, "status", string(status))
		return nil
	}
	return fmt.Errorf("set status=%s: %w", status, err)
}

// userMessageFor maps pipeline failures to the short per-document message
// surfaced in the UI.
func userMessageFor(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "Document content too short or empty"
	case domain.IsKind(err, domain.ErrConfigurationMissing):
		return "Document analysis is not configured"
	case domain.IsKind(err, domain.ErrInferenceUnavailable):
		return "Document analysis is temporarily unavailable"
	case domain.IsKind(err, domain.ErrMalformedResponse):
		return "Analysis returned an unreadable response"
	case domain.IsKind(err, domain.ErrSchemaViolation):
		return "Analysis returned an unexpected response format"
	default:
		return "Document analysis failed"
	}
}
