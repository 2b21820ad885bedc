package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// Analyzer builds the constrained request, invokes the inference boundary
// and parses the response into a filtered, typed analysis.
type Analyzer struct {
	client        ports.InferenceClient
	catalog       ports.CatalogProvider
	minConfidence float64
	maxAdvisory   int
	logger        *slog.Logger
}

func NewAnalyzer(client ports.InferenceClient, catalog ports.CatalogProvider, minConfidence float64, maxAdvisory int, logger *slog.Logger) *Analyzer {
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = 0.65
	}
	if maxAdvisory <= 0 {
		maxAdvisory = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		client:        client,
		catalog:       catalog,
		minConfidence: minConfidence,
		maxAdvisory:   maxAdvisory,
		logger:        logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, content, fileName string, fileType domain.FileType) (domain.DocumentAnalysis, error) {
	catalog := a.catalog.Catalog()

	catalogJSON, err := serializeCatalog(catalog)
	if err != nil {
		return domain.DocumentAnalysis{}, err
	}
	parts, err := buildUserParts(content, fileName, fileType, catalogJSON)
	if err != nil {
		return domain.DocumentAnalysis{}, domain.WrapError(domain.ErrInvalidInput, "build inference request", err)
	}

	rawText, err := a.client.Invoke(ctx, buildSystemInstruction(a.minConfidence), parts)
	if err != nil {
		if domain.IsKind(err, domain.ErrConfigurationMissing) {
			return domain.DocumentAnalysis{}, err
		}
		return domain.DocumentAnalysis{}, domain.WrapError(domain.ErrInferenceUnavailable, "invoke inference", err)
	}

	analysis, err := parseAnalysis(rawText)
	if err != nil {
		return domain.DocumentAnalysis{}, err
	}

	a.filter(&analysis, catalog, fileName)
	return analysis, nil
}

// filter drops low-confidence and out-of-catalog suggestions and caps the
// advisory lists. Nothing below the threshold ever reaches the merge engine.
func (a *Analyzer) filter(analysis *domain.DocumentAnalysis, catalog *domain.Catalog, fileName string) {
	kept := analysis.CompletedItems[:0]
	for _, suggestion := range analysis.CompletedItems {
		if suggestion.Confidence < a.minConfidence {
			continue
		}
		if !catalog.HasItem(suggestion.ItemID) {
			a.logger.Warn("suggestion_dropped_unknown_item",
				"file", fileName,
				"item_id", suggestion.ItemID,
				"confidence", fmt.Sprintf("%.2f", suggestion.Confidence),
			)
			continue
		}
		kept = append(kept, suggestion)
	}
	analysis.CompletedItems = kept

	if len(analysis.KeyFindings) > a.maxAdvisory {
		analysis.KeyFindings = analysis.KeyFindings[:a.maxAdvisory]
	}
	if len(analysis.Warnings) > a.maxAdvisory {
		analysis.Warnings = analysis.Warnings[:a.maxAdvisory]
	}
}
