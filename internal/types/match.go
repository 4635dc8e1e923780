package types

// SeniorityFit describes how a candidate's level compares to a role.
type SeniorityFit string

// SeniorityFit values.
const (
	SeniorityFitUnder SeniorityFit = "under"
	SeniorityFitMatch SeniorityFit = "match"
	SeniorityFitOver  SeniorityFit = "over"
)

// SkillMatch records whether one required skill is demonstrated by the CV.
type SkillMatch struct {
	Skill    string `json:"skill"`
	Matched  bool   `json:"matched"`
	Evidence string `json:"evidence,omitempty"`
}

// MatchResult scores how well a CV fits a set of job requirements.
// Score is always an integer in [0,100] regardless of what the model returned.
type MatchResult struct {
	Score         int          `json:"score"`
	Summary       string       `json:"summary"`
	SkillMatches  []SkillMatch `json:"skillMatches"`
	Gaps          []string     `json:"gaps"`
	SeniorityFit  SeniorityFit `json:"seniorityFit"`
	SeniorityNote string       `json:"seniorityNote,omitempty"`
	TalkingPoints []string     `json:"talkingPoints"`
}
