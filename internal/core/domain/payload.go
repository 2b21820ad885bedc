package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// BinarySentinelPrefix marks an extracted payload that must be sent to the
// inference boundary as an inline binary document rather than text.
const BinarySentinelPrefix = "%PDF-BASE64%:"

func IsBinarySentinel(content string) bool {
	return strings.HasPrefix(content, BinarySentinelPrefix)
}

func EncodeBinarySentinel(raw []byte) string {
	return BinarySentinelPrefix + base64.StdEncoding.EncodeToString(raw)
}

func DecodeBinarySentinel(content string) ([]byte, error) {
	encoded := strings.TrimPrefix(content, BinarySentinelPrefix)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode binary payload: %w", err)
	}
	return raw, nil
}

// ContentPart is one ordered segment of an inference request: either plain
// instruction text or an inline binary document.
type ContentPart struct {
	Text       string
	InlineData []byte
	MimeType   string
}

func TextPart(text string) ContentPart {
	return ContentPart{Text: text}
}

func InlineDataPart(mimeType string, data []byte) ContentPart {
	return ContentPart{MimeType: mimeType, InlineData: data}
}
