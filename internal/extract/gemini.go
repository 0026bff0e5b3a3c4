package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle implements Oracle against the Gemini API. This is the only
// place in the core allowed to depend on an external inference service.
type GeminiOracle struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiOracle builds an oracle using the given API key.
func NewGeminiOracle(ctx context.Context, apiKey string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiOracle{
		client: client,
		model:  client.GenerativeModel("gemini-1.5-flash"),
	}, nil
}

// Extract sends the document to the model and returns the raw response text.
// When a PDF carries a usable text layer the text is sent instead of the
// bytes; extraction from text is cheaper and noticeably more accurate than
// vision on rendered pages.
func (g *GeminiOracle) Extract(ctx context.Context, data []byte, mediaType string) (string, error) {
	parts := []genai.Part{genai.Text(extractionPrompt)}

	if mediaType == "application/pdf" {
		if text, ok := TextLayer(data); ok {
			parts = append(parts, genai.Text("Statement text:\n\n"+text))
		} else {
			parts = append(parts, genai.Blob{MIMEType: mediaType, Data: data})
		}
	} else {
		parts = append(parts, genai.Blob{MIMEType: mediaType, Data: data})
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	return responseText(resp), nil
}

// Close releases the underlying API client.
func (g *GeminiOracle) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
