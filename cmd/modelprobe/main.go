// Command modelprobe is an operational diagnostic: it lists the Gemini
// models callable with the configured API key and can smoke-test one with a
// trivial generation. It is never imported by the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"google.golang.org/genai"
)

func main() {
	model := flag.String("model", "", "model name to smoke-test with a one-line generation")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY must be set")
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client init failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Models callable with this key:")
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "listing models failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", m.Name)
	}

	if *model == "" {
		return
	}

	fmt.Printf("Smoke-testing %s...\n", *model)
	contents := []*genai.Content{
		genai.NewContentFromText("Reply with the single word: ok", genai.RoleUser),
	}
	res, err := client.Models.GenerateContent(ctx, *model, contents, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("response: %s\n", res.Text())
}
