package ports

import (
	"context"
	"io"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// DocumentAnalysisService is the single analysis entry point exposed to the
// surrounding application.
type DocumentAnalysisService interface {
	AnalyzeDocument(ctx context.Context, content, fileName, declaredType string) (domain.DocumentAnalysis, error)
}

// DocumentUploader enqueues a file for asynchronous analysis.
type DocumentUploader interface {
	Upload(ctx context.Context, ownerID, propertyID, filename, declaredType string, size int64, body io.Reader) (*domain.UploadedDocument, error)
}

// DocumentProcessor drives one document's extract -> inference -> persist
// sequence from a queue event.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
