package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// documentArchetypes enumerates the transaction documents the analyst role
// is expected to see and the facts each typically yields.
var documentArchetypes = []struct {
	name   string
	yields string
}{
	{"Rent Roll", "unit numbers, tenants, current rents, lease expirations, delinquencies"},
	{"T-12 Profit & Loss", "gross income, operating expenses, NOI"},
	{"Inspection Report", "property condition, deferred maintenance, environmental flags"},
	{"Lease Agreement", "lease term, rent amount, deposit, tenant obligations"},
	{"Title Search", "chain of title, liens, judgments, encumbrances, tax status"},
	{"Comparable Sales", "comp addresses, sale prices, cap rates, GRM"},
	{"Offering Memorandum", "property overview, financial highlights, marketing claims"},
	{"Letter of Intent", "offer price, earnest money, inspection period, contingencies"},
	{"Due Diligence Tracker", "requested items, delivery status, open issues"},
	{"Closing Statement", "settlement figures, prorations, deposit transfers"},
	{"3-Year Proforma", "projected income, expense growth, stabilized NOI"},
	{"Entity Documentation", "ownership entity, operating agreement, signatories"},
}

func buildSystemInstruction(minConfidence float64) string {
	var archetypes strings.Builder
	for _, a := range documentArchetypes {
		fmt.Fprintf(&archetypes, "- %s: %s\n", a.name, a.yields)
	}

	return fmt.Sprintf(`You are a real estate transaction analyst reviewing documents for an income-producing property sale.

Document types you will encounter and the facts they typically yield:
%s
TASK: Determine which checklist items the document provides evidence for completing. For each supported item, extract the relevant data value found.

Respond ONLY with valid JSON in this exact format:
{
  "docType": "string (what type of document this is)",
  "summary": "2-3 sentence summary of the document and its relevance to the sale",
  "completedItems": [
    {"id": "phase_item_id", "confidence": 0.0-1.0, "extractedValue": "the specific data found (dollar amount, date, name) or null if just confirmed present"}
  ],
  "keyFindings": ["bullet point finding"],
  "warnings": ["red flags or issues the seller should know about"]
}

Only include items with confidence >= %.2f. Be conservative - only mark items complete if there is clear evidence.`, archetypes.String(), minConfidence)
}

// serializeCatalog renders the checklist reference schema: id, text and
// phase title only.
func serializeCatalog(catalog *domain.Catalog) (string, error) {
	type refItem struct {
		ID    string `json:"id"`
		Text  string `json:"text"`
		Phase string `json:"phase"`
	}
	var items []refItem
	for _, phase := range catalog.Phases {
		for _, item := range phase.Items {
			items = append(items, refItem{ID: item.ID, Text: item.Text, Phase: phase.Title})
		}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("serialize catalog: %w", err)
	}
	return string(raw), nil
}

// buildUserParts assembles the request content. Binary-sentinel payloads
// become a multi-part request with an inline document block; everything
// else is a single text instruction embedding the content.
func buildUserParts(content, fileName string, fileType domain.FileType, catalogJSON string) ([]domain.ContentPart, error) {
	if domain.IsBinarySentinel(content) {
		raw, err := domain.DecodeBinarySentinel(content)
		if err != nil {
			return nil, err
		}
		instruction := fmt.Sprintf(`Analyze the attached document.

DOCUMENT NAME: %s
DOCUMENT TYPE: %s

CHECKLIST ITEMS (JSON):
%s`, fileName, strings.ToUpper(string(fileType)), catalogJSON)
		return []domain.ContentPart{
			domain.InlineDataPart("application/pdf", raw),
			domain.TextPart(instruction),
		}, nil
	}

	instruction := fmt.Sprintf(`DOCUMENT NAME: %s
DOCUMENT TYPE: %s
DOCUMENT CONTENT:
---
%s
---

CHECKLIST ITEMS (JSON):
%s`, fileName, strings.ToUpper(string(fileType)), content, catalogJSON)
	return []domain.ContentPart{domain.TextPart(instruction)}, nil
}
