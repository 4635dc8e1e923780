package analyze

import (
	"strings"

	"github.com/dizid/unplugged-cv/internal/types"
)

// Normalize coerces every enum field of a decoded JobRequirements to a
// defined member and replaces nil slices with empty ones. The model only
// probabilistically honors the requested vocabulary, so anything absent or
// unrecognized becomes the "unclear" member rather than leaking through.
func Normalize(req *types.JobRequirements) {
	req.Title = strings.TrimSpace(req.Title)
	req.WorkMode = coerceWorkMode(req.WorkMode)
	req.SeniorityLevel = coerceSeniority(req.SeniorityLevel)
	req.Signals.Autonomy = coerceAutonomy(req.Signals.Autonomy)

	if req.Requirements.MustHave == nil {
		req.Requirements.MustHave = []types.Requirement{}
	}
	if req.Requirements.NiceToHave == nil {
		req.Requirements.NiceToHave = []types.Requirement{}
	}
	if req.Signals.TechStack == nil {
		req.Signals.TechStack = []string{}
	}
	if req.RedFlags == nil {
		req.RedFlags = []types.RedFlag{}
	}
	if req.Highlights == nil {
		req.Highlights = []string{}
	}

	for i := range req.RedFlags {
		req.RedFlags[i].Severity = coerceSeverity(req.RedFlags[i].Severity)
	}
}

func coerceWorkMode(m types.WorkMode) types.WorkMode {
	switch normalize(string(m)) {
	case "remote":
		return types.WorkModeRemote
	case "hybrid":
		return types.WorkModeHybrid
	case "onsite", "on-site":
		return types.WorkModeOnsite
	default:
		return types.WorkModeUnclear
	}
}

func coerceSeniority(s types.SeniorityLevel) types.SeniorityLevel {
	switch normalize(string(s)) {
	case "junior":
		return types.SeniorityJunior
	case "mid":
		return types.SeniorityMid
	case "senior":
		return types.SenioritySenior
	case "lead":
		return types.SeniorityLead
	case "executive":
		return types.SeniorityExecutive
	default:
		return types.SeniorityUnclear
	}
}

func coerceAutonomy(a types.Autonomy) types.Autonomy {
	switch normalize(string(a)) {
	case "low":
		return types.AutonomyLow
	case "medium":
		return types.AutonomyMedium
	case "high":
		return types.AutonomyHigh
	default:
		return types.AutonomyUnclear
	}
}

func coerceSeverity(s types.Severity) types.Severity {
	switch normalize(string(s)) {
	case "high":
		return types.SeverityHigh
	case "medium":
		return types.SeverityMedium
	default:
		// A red flag the model couldn't grade is still worth showing.
		return types.SeverityLow
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
