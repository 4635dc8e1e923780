// Package llm provides the model client and structured-output decoding used
// by the analysis and generation pipeline.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Default model for all call classes. Structured extraction and free-text
// generation differ only in the per-call temperature.
const (
	DefaultModel = "gemini-2.5-flash"

	// TemperatureStructured keeps extraction output stable across calls.
	TemperatureStructured float32 = 0.3
	// TemperatureCreative is used for CV and cover letter prose.
	TemperatureCreative float32 = 0.7
)

// GenerationConfig tunes a single model call.
type GenerationConfig struct {
	Model           string
	MaxOutputTokens int32
	Temperature     float32
}

// Client is an abstraction over the generative model provider.
type Client interface {
	// Complete issues a prompt and returns the full response text.
	Complete(ctx context.Context, prompt, system string, cfg GenerationConfig) (string, error)
	// Stream issues a prompt and delivers response text to emit as it
	// arrives. A non-nil error from emit aborts the stream.
	Stream(ctx context.Context, prompt, system string, cfg GenerationConfig, emit func(chunk string) error) error
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client on top of Google Gemini.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) model(system string, cfg GenerationConfig) *genai.GenerativeModel {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	return model
}

// Complete generates the full response text for a prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt, system string, cfg GenerationConfig) (string, error) {
	model := c.model(system, cfg)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Message: "upstream call failed", Cause: err}
	}

	text, err := responseText(resp)
	if err != nil {
		return "", &GenerationError{Message: "empty response", Cause: err}
	}
	return text, nil
}

// Stream generates a response and forwards each text chunk to emit.
func (c *GeminiClient) Stream(ctx context.Context, prompt, system string, cfg GenerationConfig, emit func(chunk string) error) error {
	model := c.model(system, cfg)

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return &GenerationError{Message: "upstream stream failed", Cause: err}
		}

		text, err := responseText(resp)
		if err != nil {
			// Chunks carrying only safety metadata have no text parts.
			continue
		}
		if text == "" {
			continue
		}
		if err := emit(text); err != nil {
			return err
		}
	}
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText joins the text parts of a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
