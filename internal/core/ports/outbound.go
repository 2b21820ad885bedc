package ports

import (
	"context"
	"io"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// ChecklistStore persists checked-state entries with a keyed idempotent
// upsert. Failures are surfaced to the sync layer, which logs and moves on.
type ChecklistStore interface {
	LoadCheckedState(ctx context.Context, ownerID, propertyID string) (map[string]bool, error)
	UpsertEntries(ctx context.Context, ownerID, propertyID string, entries []domain.ChecklistEntry) error
}

// DocumentStore persists uploaded-document records, one write per
// meaningful status transition.
type DocumentStore interface {
	Create(ctx context.Context, ownerID, propertyID string, doc *domain.UploadedDocument) error
	GetByID(ctx context.Context, id string) (*domain.UploadedDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, analysis domain.DocumentAnalysis) error
	MarkApplied(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID, propertyID string) ([]domain.UploadedDocument, error)
}

// ObjectStorage stores raw uploaded files until the worker extracts them.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue carries document-uploaded events from the API to the worker.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// ContentExtractor reduces one uploaded file to an inference-ready payload:
// UTF-8 text or a binary-sentinel string. It never fails; format trouble is
// recovered into a diagnostic placeholder.
type ContentExtractor interface {
	Extract(ctx context.Context, file io.Reader, name string, fileType domain.FileType) string
}

// InferenceClient is the raw model boundary. Parts are ordered text or
// inline binary blocks; the response is free text.
type InferenceClient interface {
	Invoke(ctx context.Context, systemInstruction string, parts []domain.ContentPart) (string, error)
}

// DocumentAnalyzer turns extracted content into a typed analysis: request
// construction, inference invocation, response parsing and suggestion
// filtering live behind this port.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, content, fileName string, fileType domain.FileType) (domain.DocumentAnalysis, error)
}

// CatalogProvider supplies the static checklist taxonomy.
type CatalogProvider interface {
	Catalog() *domain.Catalog
}
