package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
)

// minContentChars is the floor below which plain-text content is rejected
// before an inference call is attempted.
const minContentChars = 10

// AnalyzeDocumentUseCase is the single analysis boundary exposed to the
// surrounding application.
type AnalyzeDocumentUseCase struct {
	analyzer ports.DocumentAnalyzer
}

func NewAnalyzeDocumentUseCase(analyzer ports.DocumentAnalyzer) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{analyzer: analyzer}
}

func (uc *AnalyzeDocumentUseCase) AnalyzeDocument(ctx context.Context, content, fileName, declaredType string) (domain.DocumentAnalysis, error) {
	if !domain.IsBinarySentinel(content) && utf8.RuneCountInString(strings.TrimSpace(content)) < minContentChars {
		return domain.DocumentAnalysis{}, domain.WrapError(
			domain.ErrInvalidInput,
			"analyze document",
			fmt.Errorf("document content too short or empty"),
		)
	}

	fileType, ok := domain.ParseFileType(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declaredType), ".")))
	if !ok {
		return domain.DocumentAnalysis{}, domain.WrapError(
			domain.ErrInvalidInput,
			"analyze document",
			fmt.Errorf("unsupported declared type %q", declaredType),
		)
	}

	return uc.analyzer.Analyze(ctx, content, fileName, fileType)
}
