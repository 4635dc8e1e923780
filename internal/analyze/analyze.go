// Package analyze turns raw job posting text into a normalized
// JobRequirements record via LLM extraction.
package analyze

import (
	"context"
	"strings"

	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/prompts"
	"github.com/dizid/unplugged-cv/internal/schemas"
	"github.com/dizid/unplugged-cv/internal/types"
)

// MinJobTextLen is the minimum trimmed posting length worth a model call.
const MinJobTextLen = 50

// Analyzer extracts structured job requirements from posting text.
type Analyzer struct {
	client llm.Client
}

// New creates an Analyzer backed by the given model client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze parses a job posting into JobRequirements. Postings shorter than
// MinJobTextLen are rejected before any model call. Malformed model output
// is surfaced as *llm.MalformedOutputError; there is no automatic retry.
func (a *Analyzer) Analyze(ctx context.Context, jobText string) (*types.JobRequirements, error) {
	if len(strings.TrimSpace(jobText)) < MinJobTextLen {
		return nil, &types.InputTooShortError{What: "job description", Min: MinJobTextLen}
	}

	raw, err := a.client.Complete(ctx, prompts.JobParserUser(jobText), prompts.JobParserSystem(), llm.GenerationConfig{
		MaxOutputTokens: 4096,
		Temperature:     llm.TemperatureStructured,
	})
	if err != nil {
		return nil, err
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJobRequirements([]byte(cleaned)); err != nil {
		return nil, &llm.MalformedOutputError{Raw: raw, Cause: err}
	}

	var req types.JobRequirements
	if err := llm.ExtractJSON(raw, &req); err != nil {
		return nil, err
	}

	Normalize(&req)
	return &req, nil
}
