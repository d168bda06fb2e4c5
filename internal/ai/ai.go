/*
Package ai asks Gemini for a short digest of a result page that the classifier
has already judged positive. The digest is free text for the notification and
never influences the availability verdict.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// maxPageRunes bounds the page text sent to the model.
const maxPageRunes = 12000

type Digest struct {
	Summary []string `json:"summary"`
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Digester struct {
	models generator
	model  string
}

func New(ctx context.Context, apiKey string, modelName string) (*Digester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Digester{models: client.Models, model: modelName}, nil
}

// Digest returns 3-5 bullets describing the trips on the page.
func (d *Digester) Digest(ctx context.Context, pageText string) ([]string, error) {
	userContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: buildUserPrompt(pageText)},
		},
		Role: "user",
	}

	resp, err := d.models.GenerateContent(ctx, d.model, []*genai.Content{userContent}, &genai.GenerateContentConfig{
		// Contents only take user and model roles.
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemInstruction},
			},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   getResponseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return parseDigest(resp.Text())
}

func parseDigest(respText string) ([]string, error) {
	var digest Digest
	if err := json.Unmarshal([]byte(respText), &digest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}

	var out []string
	for _, s := range digest.Summary {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func getResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "A list of 3-5 concise bullet points describing the trips on the page.",
			},
		},
		Required: []string{"summary"},
	}
}
