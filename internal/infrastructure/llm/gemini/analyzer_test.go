package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

type fakeInference struct {
	response string
	err      error

	capturedSystem string
	capturedParts  []domain.ContentPart
}

func (f *fakeInference) Invoke(_ context.Context, systemInstruction string, parts []domain.ContentPart) (string, error) {
	f.capturedSystem = systemInstruction
	f.capturedParts = parts
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type staticCatalog struct {
	catalog *domain.Catalog
}

func (s staticCatalog) Catalog() *domain.Catalog { return s.catalog }

func testCatalog() staticCatalog {
	return staticCatalog{catalog: domain.NewCatalog([]domain.Phase{
		{ID: 3, Title: "Tenancy & Lease Audit", Items: []domain.ChecklistItem{
			{ID: "3-1", Text: "Compile all current leases", Critical: true},
			{ID: "3-2", Text: "Document current vs market rents", Critical: true},
		}},
	})}
}

func TestAnalyzeFiltersByConfidenceAndCatalog(t *testing.T) {
	client := &fakeInference{response: `{
		"docType": "Rent Roll",
		"summary": "ok",
		"completedItems": [
			{"id": "3-1", "confidence": 0.9, "extractedValue": "18 leases"},
			{"id": "3-2", "confidence": 0.5},
			{"id": "99-9", "confidence": 0.95}
		]
	}`}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 16, nil)

	analysis, err := analyzer.Analyze(context.Background(), "unit tenant rent data", "roll.xlsx", domain.FileXLSX)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(analysis.CompletedItems) != 1 {
		t.Fatalf("expected exactly one surviving suggestion, got %+v", analysis.CompletedItems)
	}
	if analysis.CompletedItems[0].ItemID != "3-1" {
		t.Fatalf("expected 3-1 to survive, got %s", analysis.CompletedItems[0].ItemID)
	}
}

func TestAnalyzeCapsAdvisoryLists(t *testing.T) {
	var findings []string
	for range 10 {
		findings = append(findings, `"finding"`)
	}
	client := &fakeInference{response: `{"docType":"x","summary":"s","keyFindings":[` + strings.Join(findings, ",") + `]}`}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 4, nil)

	analysis, err := analyzer.Analyze(context.Background(), "some lease text", "lease.docx", domain.FileDOCX)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(analysis.KeyFindings) != 4 {
		t.Fatalf("expected advisory cap of 4, got %d", len(analysis.KeyFindings))
	}
}

func TestAnalyzeTextRequestEmbedsContentAndCatalog(t *testing.T) {
	client := &fakeInference{response: `{"docType":"x","summary":"s"}`}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 16, nil)

	if _, err := analyzer.Analyze(context.Background(), "lease expires 2026-08-31", "lease.docx", domain.FileDOCX); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(client.capturedParts) != 1 {
		t.Fatalf("expected single text part, got %d", len(client.capturedParts))
	}
	text := client.capturedParts[0].Text
	for _, want := range []string{"lease expires 2026-08-31", "lease.docx", "DOCX", `"3-1"`, "Compile all current leases"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in request text:\n%s", want, text)
		}
	}
	if !strings.Contains(client.capturedSystem, "0.65") {
		t.Fatalf("system instruction should carry the confidence threshold:\n%s", client.capturedSystem)
	}
}

func TestAnalyzeBinarySentinelBuildsMultipartRequest(t *testing.T) {
	client := &fakeInference{response: `{"docType":"x","summary":"s"}`}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 16, nil)

	payload := domain.EncodeBinarySentinel([]byte("%PDF-1.4 body"))
	if _, err := analyzer.Analyze(context.Background(), payload, "title.pdf", domain.FilePDF); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(client.capturedParts) != 2 {
		t.Fatalf("expected binary + instruction parts, got %d", len(client.capturedParts))
	}
	if client.capturedParts[0].MimeType != "application/pdf" || len(client.capturedParts[0].InlineData) == 0 {
		t.Fatalf("expected inline pdf part, got %+v", client.capturedParts[0])
	}
	if !strings.Contains(client.capturedParts[1].Text, "title.pdf") {
		t.Fatalf("instruction part should name the file")
	}
}

func TestAnalyzeWrapsTransportFailureAsUnavailable(t *testing.T) {
	client := &fakeInference{err: &HTTPStatusError{Operation: "generate", StatusCode: 503, Status: "503 Service Unavailable"}}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 16, nil)

	_, err := analyzer.Analyze(context.Background(), "some content here", "doc.docx", domain.FileDOCX)
	if err == nil || !domain.IsKind(err, domain.ErrInferenceUnavailable) {
		t.Fatalf("expected ErrInferenceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected upstream status in error, got %v", err)
	}
}

func TestAnalyzePassesThroughConfigurationMissing(t *testing.T) {
	client := &fakeInference{err: domain.WrapError(domain.ErrConfigurationMissing, "invoke inference", context.Canceled)}
	analyzer := NewAnalyzer(client, testCatalog(), 0.65, 16, nil)

	_, err := analyzer.Analyze(context.Background(), "some content here", "doc.docx", domain.FileDOCX)
	if err == nil || !domain.IsKind(err, domain.ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	if domain.IsKind(err, domain.ErrInferenceUnavailable) {
		t.Fatalf("configuration errors must not be double-wrapped as unavailable")
	}
}
