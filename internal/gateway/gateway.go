// Package gateway adapts text, image, PDF, and audio payloads into requests
// against the Gemini generate-content API. It performs no retries and no
// caching; one upstream failure is one failed request.
package gateway

import "context"

// Result is the provider's generated text plus the usage accounting that is
// persisted alongside history records.
type Result struct {
	Text         string `json:"-"`
	Model        string `json:"model"`
	PromptTokens int32  `json:"promptTokens"`
	OutputTokens int32  `json:"outputTokens"`
	TotalTokens  int32  `json:"totalTokens"`
}

// Generator is the port the HTTP layer talks to. The Gemini client
// implements it in production; tests substitute a scripted fake.
type Generator interface {
	SummarizeText(ctx context.Context, text string) (*Result, error)
	DescribeImage(ctx context.Context, data []byte, mimeType string) (*Result, error)
	AnalyzeFile(ctx context.Context, data []byte, mimeType string) (*Result, error)
}
