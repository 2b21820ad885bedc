// Package office reduces uploaded transaction files (pdf/docx/xlsx/pptx and
// plain text) to inference-ready payloads. Extraction never fails upward:
// any per-format trouble becomes a diagnostic placeholder string so the
// pipeline always receives some content.
package office

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

type Extractor struct {
	maxTextChars   int
	maxBinaryBytes int
	logger         *slog.Logger
}

func NewExtractor(maxTextChars, maxBinaryBytes int, logger *slog.Logger) *Extractor {
	if maxTextChars <= 0 {
		maxTextChars = 12000
	}
	if maxBinaryBytes <= 0 {
		maxBinaryBytes = 4_000_000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		maxTextChars:   maxTextChars,
		maxBinaryBytes: maxBinaryBytes,
		logger:         logger,
	}
}

// Extract converts one file into a text payload capped at maxTextChars, or
// a binary-sentinel payload for formats that cannot be reduced to text.
func (e *Extractor) Extract(ctx context.Context, file io.Reader, name string, fileType domain.FileType) string {
	raw, err := io.ReadAll(io.LimitReader(file, int64(e.maxBinaryBytes)+1))
	if err != nil {
		return failurePlaceholder(name, fmt.Errorf("read file: %w", err))
	}
	if len(raw) == 0 {
		return failurePlaceholder(name, fmt.Errorf("file is empty"))
	}
	if len(raw) > e.maxBinaryBytes {
		raw = raw[:e.maxBinaryBytes]
	}

	var text string
	switch fileType {
	case domain.FilePDF:
		return e.extractPDF(ctx, raw, name)
	case domain.FileXLSX:
		text, err = e.extractXLSX(raw, name)
	case domain.FileDOCX:
		text, err = e.extractDOCX(raw, name)
	case domain.FilePPTX:
		text, err = e.extractPPTX(raw, name)
	case domain.FileTXT, domain.FileCSV:
		text, err = extractPlainText(raw, name)
	default:
		return failurePlaceholder(name, fmt.Errorf("unsupported file type %q", fileType))
	}
	if err != nil {
		e.logger.Warn("extraction_recovered", "file", name, "type", string(fileType), "error", err)
		return failurePlaceholder(name, err)
	}
	return truncateChars(text, e.maxTextChars)
}

func extractPlainText(raw []byte, name string) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file %s is not valid UTF-8 text", name)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return noTextPlaceholder(name), nil
	}
	return text, nil
}

func failurePlaceholder(name string, err error) string {
	return fmt.Sprintf("[Extraction failed for %s: %v]", name, err)
}

func noTextPlaceholder(name string) string {
	return fmt.Sprintf("[No text extracted from %s]", name)
}

func truncateChars(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
