package office

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	docxlib "github.com/fumiama/go-docx"
)

// extractDOCX pulls paragraph text runs in document order.
func (e *Extractor) extractDOCX(raw []byte, name string) (string, error) {
	doc, err := docxlib.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse word document: %w", err)
	}

	var out strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docxlib.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(text)
	}

	text := strings.TrimSpace(out.String())
	if utf8.RuneCountInString(text) < 10 {
		return noTextPlaceholder(name), nil
	}
	return text, nil
}

func paragraphText(para *docxlib.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docxlib.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docxlib.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
