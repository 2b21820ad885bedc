package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// UploadDocumentUseCase enqueues one file: store the raw bytes, create the
// document record in status uploading, and hand the id to the worker.
type UploadDocumentUseCase struct {
	docs    ports.DocumentStore
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewUploadDocumentUseCase(docs ports.DocumentStore, storage ports.ObjectStorage, queue ports.MessageQueue) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{docs: docs, storage: storage, queue: queue}
}

func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	ownerID, propertyID, filename, declaredType string,
	size int64,
	body io.Reader,
) (*domain.UploadedDocument, error) {
	fileType, ok := domain.ParseFileType(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declaredType), ".")))
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("unsupported file type %q", declaredType))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}

	now := time.Now().UTC()
	doc := &domain.UploadedDocument{
		ID:           id,
		Name:         filename,
		DeclaredType: fileType,
		SizeBytes:    size,
		Status:       domain.StatusUploading,
		StoragePath:  storageKey,
		UploadedAt:   now,
		UpdatedAt:    now,
	}
	if err := uc.docs.Create(ctx, ownerID, propertyID, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}
	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
