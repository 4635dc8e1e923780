package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/prompts"
	"github.com/dizid/unplugged-cv/internal/types"
)

// MinCVLen is the minimum trimmed CV length accepted for a cover letter.
const MinCVLen = 100

// GenerateCoverLetter writes a cover letter for the given CV and job,
// streaming chunks to emit as they arrive (emit may be nil). The optional
// match result, when present, steers the letter toward confirmed strengths
// and away from gaps.
func (o *Orchestrator) GenerateCoverLetter(ctx context.Context, cvText string, req *types.JobRequirements, match *types.MatchResult, emit func(chunk string) error) (string, error) {
	if len(strings.TrimSpace(cvText)) < MinCVLen {
		return "", &types.InputTooShortError{What: "CV", Min: MinCVLen}
	}
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return "", &types.MissingJobContextError{}
	}

	cfg := llm.GenerationConfig{
		MaxOutputTokens: 2048,
		Temperature:     llm.TemperatureCreative,
	}

	var sb strings.Builder
	err := o.client.Stream(ctx, buildCoverLetterPrompt(cvText, req, match), prompts.CoverLetterSystem(), cfg, func(chunk string) error {
		sb.WriteString(chunk)
		if emit != nil {
			return emit(chunk)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(sb.String()), nil
}

func buildCoverLetterPrompt(cvText string, req *types.JobRequirements, match *types.MatchResult) string {
	var sb strings.Builder
	sb.WriteString("Write a cover letter for this application.\n\n")

	sb.WriteString("## The Role\n")
	sb.WriteString("Title: " + req.Title + "\n")
	if req.Company != "" {
		sb.WriteString("Company: " + req.Company + "\n")
	}
	if req.SeniorityLevel != "" && req.SeniorityLevel != types.SeniorityUnclear {
		sb.WriteString("Seniority: " + string(req.SeniorityLevel) + "\n")
	}
	if req.Summary != "" {
		sb.WriteString("Summary: " + req.Summary + "\n")
	}
	if skills := skillNames(req.Requirements.MustHave); len(skills) > 0 {
		sb.WriteString("Key requirements: " + strings.Join(skills, ", ") + "\n")
	}
	if len(req.Signals.TechStack) > 0 {
		sb.WriteString("Tech stack: " + strings.Join(req.Signals.TechStack, ", ") + "\n")
	}

	if match != nil {
		sb.WriteString("\n## Match Analysis\n")
		sb.WriteString(fmt.Sprintf("Overall fit: %d/100\n", match.Score))
		if strengths := matchedSkills(match.SkillMatches); len(strengths) > 0 {
			sb.WriteString("Confirmed strengths: " + strings.Join(strengths, ", ") + "\n")
		}
		if len(match.Gaps) > 0 {
			sb.WriteString("Gaps to avoid overclaiming on: " + strings.Join(match.Gaps, ", ") + "\n")
		}
		if len(match.TalkingPoints) > 0 {
			sb.WriteString("Suggested talking points:\n")
			for _, point := range match.TalkingPoints {
				sb.WriteString("- " + point + "\n")
			}
		}
	}

	sb.WriteString("\n## My CV\n")
	sb.WriteString(cvText)

	sb.WriteString("\n\n---\n\n")
	sb.WriteString("Write the letter in markdown. Lead with genuine interest in the role, connect my strongest relevant experience to what they need, and keep it under 300 words.")
	return sb.String()
}

func skillNames(reqs []types.Requirement) []string {
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r.Skill != "" {
			names = append(names, r.Skill)
		}
	}
	return names
}

func matchedSkills(matches []types.SkillMatch) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Matched && m.Skill != "" {
			names = append(names, m.Skill)
		}
	}
	return names
}
