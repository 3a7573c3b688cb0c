package gateway

import (
	"context"
	"fmt"

	"github.com/bridgeapp/bridge/internal/apperr"
	"google.golang.org/genai"
)

// GeminiClient implements Generator against the Gemini API. One instance is
// constructed at startup and injected into the router; it is safe for
// concurrent use.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a Gemini-backed generator keyed by apiKey.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if modelName == "" {
		modelName = "gemini-flash-latest"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *GeminiClient) SummarizeText(ctx context.Context, text string) (*Result, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(SummarizePrompt(text), genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to generate summary", err)
	}
	return g.result(res)
}

func (g *GeminiClient) DescribeImage(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(describeImagePrompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to describe image", err)
	}
	return g.result(res)
}

func (g *GeminiClient) AnalyzeFile(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(AnalyzePrompt(mimeType)),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to analyze file", err)
	}
	return g.result(res)
}

// result extracts the generated text and usage accounting from a response.
func (g *GeminiClient) result(res *genai.GenerateContentResponse) (*Result, error) {
	text := res.Text()
	if text == "" {
		return nil, apperr.Upstream("Provider returned empty text", fmt.Errorf("model %s produced no candidates", g.modelName))
	}

	out := &Result{
		Text:  text,
		Model: g.modelName,
	}
	if usage := res.UsageMetadata; usage != nil {
		out.PromptTokens = usage.PromptTokenCount
		out.OutputTokens = usage.CandidatesTokenCount
		out.TotalTokens = usage.TotalTokenCount
	}
	return out, nil
}
