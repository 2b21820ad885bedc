package office

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX opens the deck as an archive, orders the per-slide markup
// parts by numeric index, and strips markup tags from the text runs. Each
// slide's surviving fragments are joined under a [Slide N] marker.
func (e *Extractor) extractPPTX(raw []byte, name string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open slide archive: %w", err)
	}

	type slidePart struct {
		index int
		file  *zip.File
	}
	var parts []slidePart
	for _, file := range archive.File {
		m := slidePartRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{index: index, file: file})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	var out strings.Builder
	for _, part := range parts {
		rc, err := part.file.Open()
		if err != nil {
			return "", fmt.Errorf("open slide %d: %w", part.index, err)
		}
		markup, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read slide %d: %w", part.index, err)
		}

		fragments := stripMarkupTags(markup)
		if len(fragments) == 0 {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "[Slide %d] %s", part.index, strings.Join(fragments, " "))
	}

	if out.Len() == 0 {
		return noTextPlaceholder(name), nil
	}
	return out.String(), nil
}

// stripMarkupTags tokenizes the slide markup and keeps only text content.
func stripMarkupTags(markup []byte) []string {
	tokenizer := html.NewTokenizer(bytes.NewReader(markup))
	var fragments []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.TextToken {
			continue
		}
		text := strings.TrimSpace(string(tokenizer.Text()))
		if text != "" {
			fragments = append(fragments, text)
		}
	}
	return fragments
}
