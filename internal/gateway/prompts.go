package gateway

import (
	"fmt"
	"strings"
)

const summarizePromptTemplate = `
You are an expert educational assistant.
Please provide a concise, easy-to-understand summary of the following text.
Use bullet points for key concepts.

Text: %q
`

const describeImagePrompt = `
Describe this educational image in detail.
If it contains text, extract it.
If it's a diagram, explain the concepts.
Keep the tone helpful and accessible for a visually impaired student.
`

const analyzePDFPrompt = `
You are an expert reading assistant.
Summarize the key takeaways from this PDF document.
Extract the main points, definitions, and any important dates or figures.
Format the output with clear headings and bullet points.
`

const analyzeAudioPrompt = `
You are an expert transcriber and summarizer.
Listen to this audio file.
1. Provide a verbatim transcript (if it's short) or a detailed summary of the conversation/speech.
2. Highlight key action items or important information.
`

const analyzeGenericPrompt = "Analyze this file."

// SummarizePrompt embeds the literal input text into the summary template.
func SummarizePrompt(text string) string {
	return fmt.Sprintf(summarizePromptTemplate, text)
}

// AnalyzePrompt selects the instruction template for an uploaded file.
// PDF and audio each get a dedicated template; every other mime type falls
// back to the generic one. The three paths are mutually exclusive.
func AnalyzePrompt(mimeType string) string {
	switch {
	case mimeType == "application/pdf":
		return analyzePDFPrompt
	case strings.HasPrefix(mimeType, "audio/"):
		return analyzeAudioPrompt
	default:
		return analyzeGenericPrompt
	}
}
