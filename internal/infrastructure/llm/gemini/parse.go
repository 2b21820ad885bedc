package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

const rawPreviewChars = 200

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// parseAnalysis turns untrusted response text into a typed analysis. The
// text may be wrapped in incidental code fences; the first balanced object
// span is decoded and every field's type is validated before use.
func parseAnalysis(rawText string) (domain.DocumentAnalysis, error) {
	text := stripCodeFence(rawText)

	span, ok := firstBalancedObject(text)
	if !ok {
		return domain.DocumentAnalysis{}, domain.WrapError(
			domain.ErrMalformedResponse,
			"parse analysis",
			fmt.Errorf("no balanced JSON object in response: %q", preview(rawText)),
		)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return domain.DocumentAnalysis{}, domain.WrapError(
			domain.ErrMalformedResponse,
			"parse analysis",
			fmt.Errorf("invalid JSON in response: %w: %q", err, preview(rawText)),
		)
	}

	analysis := domain.DocumentAnalysis{}
	var err error
	if analysis.DocType, err = stringField(payload, "docType"); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	if analysis.Summary, err = stringField(payload, "summary"); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	if analysis.CompletedItems, err = suggestionField(payload, "completedItems"); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	if analysis.KeyFindings, err = stringListField(payload, "keyFindings"); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	if analysis.Warnings, err = stringListField(payload, "warnings"); err != nil {
		return domain.DocumentAnalysis{}, err
	}
	return analysis, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// firstBalancedObject locates the first string-aware balanced {...} span.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func preview(raw string) string {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) <= rawPreviewChars {
		return string(runes)
	}
	return string(runes[:rawPreviewChars])
}

func schemaError(field, expected string, got any) error {
	return domain.WrapError(
		domain.ErrSchemaViolation,
		"parse analysis",
		fmt.Errorf("field %s: expected %s, got %T", field, expected, got),
	)
}

func stringField(payload map[string]any, key string) (string, error) {
	value, ok := payload[key]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", schemaError(key, "string", value)
	}
	return s, nil
}

func stringListField(payload map[string]any, key string) ([]string, error) {
	value, ok := payload[key]
	if !ok || value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, schemaError(key, "array of strings", value)
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, schemaError(key, "array of strings", entry)
		}
		out = append(out, s)
	}
	return out, nil
}

func suggestionField(payload map[string]any, key string) ([]domain.Suggestion, error) {
	value, ok := payload[key]
	if !ok || value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, schemaError(key, "array of objects", value)
	}

	out := make([]domain.Suggestion, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, schemaError(key, "array of objects", entry)
		}
		id, ok := obj["id"].(string)
		if !ok {
			return nil, schemaError(key+".id", "string", obj["id"])
		}
		confidence, ok := obj["confidence"].(float64)
		if !ok {
			return nil, schemaError(key+".confidence", "number", obj["confidence"])
		}
		if confidence < 0 || confidence > 1 {
			return nil, domain.WrapError(
				domain.ErrSchemaViolation,
				"parse analysis",
				fmt.Errorf("field %s.confidence: %v outside [0,1]", key, confidence),
			)
		}
		suggestion := domain.Suggestion{ItemID: id, Confidence: confidence}
		if raw, present := obj["extractedValue"]; present && raw != nil {
			extracted, ok := raw.(string)
			if !ok {
				return nil, schemaError(key+".extractedValue", "string or null", raw)
			}
			suggestion.ExtractedValue = extracted
		}
		out = append(out, suggestion)
	}
	return out, nil
}
