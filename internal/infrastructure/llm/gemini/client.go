package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// Client speaks the generateContent REST surface. It carries no retry
// policy of its own: each document's inference call is attempted once per
// user-initiated upload.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type generatePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *inlineDataPart `json:"inline_data,omitempty"`
}

type inlineDataPart struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Invoke sends one constrained request and returns the raw response text.
func (c *Client) Invoke(ctx context.Context, systemInstruction string, parts []domain.ContentPart) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", domain.WrapError(domain.ErrConfigurationMissing, "invoke inference", fmt.Errorf("inference api key is not set"))
	}

	reqParts := make([]generatePart, 0, len(parts))
	for _, part := range parts {
		if part.InlineData != nil {
			reqParts = append(reqParts, generatePart{
				InlineData: &inlineDataPart{
					MimeType: part.MimeType,
					Data:     base64.StdEncoding.EncodeToString(part.InlineData),
				},
			})
			continue
		}
		reqParts = append(reqParts, generatePart{Text: part.Text})
	}

	request := generateRequest{
		Contents: []generateContent{{Role: "user", Parts: reqParts}},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 2048,
		},
	}
	if systemInstruction != "" {
		request.SystemInstruction = &generateContent{
			Parts: []generatePart{{Text: systemInstruction}},
		}
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
	var response generateResponse
	if err := c.postJSON(ctx, path, request, &response, "generate"); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("inference returned no candidates")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
