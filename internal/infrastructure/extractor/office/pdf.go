package office

import (
	"bytes"
	"context"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// extractPDF always returns the binary-sentinel payload: fixed-layout pages
// are left to the vision-capable inference path rather than lossy local text
// extraction. The page-count probe only feeds diagnostics.
func (e *Extractor) extractPDF(_ context.Context, raw []byte, name string) string {
	if pages, ok := probePDFPageCount(raw); ok {
		e.logger.Debug("pdf_probe", "file", name, "pages", pages, "bytes", len(raw))
	} else {
		e.logger.Warn("pdf_probe_unreadable", "file", name, "bytes", len(raw))
	}
	return domain.EncodeBinarySentinel(raw)
}

func probePDFPageCount(raw []byte) (pages int, ok bool) {
	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, ok = 0, false
		}
	}()
	reader, err := pdflib.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return 0, false
	}
	return reader.NumPage(), true
}
