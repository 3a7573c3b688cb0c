package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/bridgeapp/bridge/internal/apperr"
)

// MockGenerator is a scripted Generator for tests and local development.
// It echoes which prompt path a payload was routed through, and can be
// forced to fail like the upstream provider.
type MockGenerator struct {
	Err error
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) SummarizeText(ctx context.Context, text string) (*Result, error) {
	if m.Err != nil {
		return nil, apperr.Upstream("Failed to generate summary", m.Err)
	}
	return m.result(fmt.Sprintf("summary of: %s", text)), nil
}

func (m *MockGenerator) DescribeImage(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if m.Err != nil {
		return nil, apperr.Upstream("Failed to describe image", m.Err)
	}
	return m.result(fmt.Sprintf("description of %d %s bytes", len(data), mimeType)), nil
}

func (m *MockGenerator) AnalyzeFile(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if m.Err != nil {
		return nil, apperr.Upstream("Failed to analyze file", m.Err)
	}

	var path string
	switch {
	case mimeType == "application/pdf":
		path = "pdf"
	case strings.HasPrefix(mimeType, "audio/"):
		path = "audio"
	default:
		path = "generic"
	}
	return m.result(fmt.Sprintf("analysis via %s path of %d bytes", path, len(data))), nil
}

func (m *MockGenerator) result(text string) *Result {
	return &Result{
		Text:         text,
		Model:        "mock",
		PromptTokens: 1,
		OutputTokens: 1,
		TotalTokens:  2,
	}
}
