// Package match scores how well a generated CV fits analyzed job
// requirements.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/prompts"
	"github.com/dizid/unplugged-cv/internal/types"
)

// MinCVLen is the minimum trimmed CV length worth scoring.
const MinCVLen = 100

// Scorer produces a MatchResult for a CV against job requirements.
type Scorer struct {
	client llm.Client
}

// New creates a Scorer backed by the given model client.
func New(client llm.Client) *Scorer {
	return &Scorer{client: client}
}

// wireResult mirrors MatchResult but leaves score untyped: the model
// returns floats, strings-of-numbers and out-of-range values often enough
// that clamping happens here, not in the caller.
type wireResult struct {
	Score         float64            `json:"score"`
	Summary       string             `json:"summary"`
	SkillMatches  []types.SkillMatch `json:"skillMatches"`
	Gaps          []string           `json:"gaps"`
	SeniorityFit  string             `json:"seniorityFit"`
	SeniorityNote string             `json:"seniorityNote"`
	TalkingPoints []string           `json:"talkingPoints"`
}

// jobSummary is the condensed job context sent to the model. Full
// requirements records blow past useful context; skills are enough.
type jobSummary struct {
	Title      string   `json:"title"`
	Seniority  string   `json:"seniority"`
	MustHave   []string `json:"mustHave"`
	NiceToHave []string `json:"niceToHave"`
	Experience string   `json:"experience,omitempty"`
}

// Score analyzes the fit between a CV and job requirements. The published
// score is always an integer in [0,100] regardless of raw model output.
func (s *Scorer) Score(ctx context.Context, cvText string, req *types.JobRequirements) (*types.MatchResult, error) {
	if len(strings.TrimSpace(cvText)) < MinCVLen {
		return nil, &types.InputTooShortError{What: "CV content", Min: MinCVLen}
	}
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, &types.MissingJobContextError{}
	}

	prompt, err := buildPrompt(cvText, req)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, prompt, prompts.MatchSystem(), llm.GenerationConfig{
		MaxOutputTokens: 2048,
		Temperature:     llm.TemperatureStructured,
	})
	if err != nil {
		return nil, err
	}

	var wire wireResult
	if err := llm.ExtractJSON(raw, &wire); err != nil {
		return nil, err
	}

	result := &types.MatchResult{
		Score:         ClampScore(wire.Score),
		Summary:       wire.Summary,
		SkillMatches:  wire.SkillMatches,
		Gaps:          wire.Gaps,
		SeniorityFit:  coerceFit(wire.SeniorityFit),
		SeniorityNote: wire.SeniorityNote,
		TalkingPoints: wire.TalkingPoints,
	}
	if result.SkillMatches == nil {
		result.SkillMatches = []types.SkillMatch{}
	}
	if result.Gaps == nil {
		result.Gaps = []string{}
	}
	if result.TalkingPoints == nil {
		result.TalkingPoints = []string{}
	}
	return result, nil
}

func buildPrompt(cvText string, req *types.JobRequirements) (string, error) {
	summary := jobSummary{
		Title:      req.Title,
		Seniority:  string(req.SeniorityLevel),
		MustHave:   skillNames(req.Requirements.MustHave),
		NiceToHave: skillNames(req.Requirements.NiceToHave),
		Experience: req.Requirements.Experience,
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal job summary: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("## Job Requirements\n")
	sb.Write(summaryJSON)
	sb.WriteString("\n\n## Candidate CV\n")
	sb.WriteString(cvText)
	sb.WriteString("\n\n---\n\nAnalyze the match and return JSON only.")
	return sb.String(), nil
}

func skillNames(reqs []types.Requirement) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.Skill)
	}
	return names
}

// ClampScore rounds and clamps a raw score into the closed interval [0,100].
func ClampScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceFit(fit string) types.SeniorityFit {
	switch strings.ToLower(strings.TrimSpace(fit)) {
	case "under":
		return types.SeniorityFitUnder
	case "over":
		return types.SeniorityFitOver
	default:
		return types.SeniorityFitMatch
	}
}
