package office

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const headerScanColumns = 16

// rentRollKeywords flag a sheet whose header row looks like a rent roll.
var rentRollKeywords = []string{"unit", "tenant", "rent", "lease"}

// extractXLSX renders every sheet as tab-delimited text. Sheets whose header
// row matches the rent-roll shape are prefixed with a detection marker naming
// the matched headers.
func (e *Extractor) extractXLSX(raw []byte, name string) (string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	var out strings.Builder
	for idx, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if idx > 0 {
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "--- Sheet: %s ---\n", sheet)

		if len(rows) == 0 {
			out.WriteString("(empty sheet)")
			continue
		}
		if matched := matchRentRollHeaders(rows[0]); len(matched) > 0 {
			fmt.Fprintf(&out, "[RENT ROLL DETECTED: headers: %s]\n", strings.Join(matched, ", "))
		}
		for i, row := range rows {
			if i > 0 {
				out.WriteString("\n")
			}
			out.WriteString(strings.Join(row, "\t"))
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return noTextPlaceholder(name), nil
	}
	return text, nil
}

// matchRentRollHeaders inspects the first headerScanColumns cells and
// returns the header names carrying rent-roll keywords.
func matchRentRollHeaders(header []string) []string {
	if len(header) > headerScanColumns {
		header = header[:headerScanColumns]
	}
	var matched []string
	for _, cell := range header {
		lower := strings.ToLower(cell)
		for _, keyword := range rentRollKeywords {
			if strings.Contains(lower, keyword) {
				matched = append(matched, strings.TrimSpace(cell))
				break
			}
		}
	}
	return matched
}
