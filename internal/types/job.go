// Package types defines the shared domain types exchanged between the
// analysis, generation, billing and storage layers.
package types

// WorkMode classifies where the role is performed.
type WorkMode string

// WorkMode values. Unclear is the fallback when the posting gives no signal.
const (
	WorkModeRemote  WorkMode = "remote"
	WorkModeHybrid  WorkMode = "hybrid"
	WorkModeOnsite  WorkMode = "onsite"
	WorkModeUnclear WorkMode = "unclear"
)

// SeniorityLevel classifies the expected experience level of a role.
type SeniorityLevel string

// SeniorityLevel values.
const (
	SeniorityJunior    SeniorityLevel = "junior"
	SeniorityMid       SeniorityLevel = "mid"
	SenioritySenior    SeniorityLevel = "senior"
	SeniorityLead      SeniorityLevel = "lead"
	SeniorityExecutive SeniorityLevel = "executive"
	SeniorityUnclear   SeniorityLevel = "unclear"
)

// Autonomy classifies how much independence the role offers.
type Autonomy string

// Autonomy values.
const (
	AutonomyLow     Autonomy = "low"
	AutonomyMedium  Autonomy = "medium"
	AutonomyHigh    Autonomy = "high"
	AutonomyUnclear Autonomy = "unclear"
)

// Severity grades a red flag found in a job posting.
type Severity string

// Severity values.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Requirement is a single skill requirement extracted from a posting.
type Requirement struct {
	Skill   string `json:"skill"`
	Years   string `json:"years,omitempty"`
	Context string `json:"context,omitempty"`
}

// Requirements groups the must-have and nice-to-have skills of a posting.
type Requirements struct {
	MustHave   []Requirement `json:"mustHave"`
	NiceToHave []Requirement `json:"niceToHave"`
	Experience string        `json:"experience,omitempty"`
	Education  string        `json:"education,omitempty"`
}

// Salary is a compensation range, when the posting states one.
type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Compensation holds salary, benefits and equity information.
type Compensation struct {
	Salary   *Salary  `json:"salary,omitempty"`
	Benefits []string `json:"benefits,omitempty"`
	Equity   string   `json:"equity,omitempty"`
}

// Signals captures softer context about the role and team.
type Signals struct {
	TeamSize       string   `json:"teamSize,omitempty"`
	ReportsTo      string   `json:"reportsTo,omitempty"`
	Autonomy       Autonomy `json:"autonomy"`
	TechStack      []string `json:"techStack"`
	IndustryDomain string   `json:"industryDomain,omitempty"`
}

// RedFlag is a warning extracted from the posting, with the quote that
// triggered it.
type RedFlag struct {
	Flag     string   `json:"flag"`
	Quote    string   `json:"quote"`
	Severity Severity `json:"severity"`
}

// JobRequirements is the normalized record produced by the job analyzer.
// Enum fields are always coerced to a defined member; "unclear" stands in
// for anything the model left absent or invented.
type JobRequirements struct {
	Title          string         `json:"title"`
	Company        string         `json:"company,omitempty"`
	Location       string         `json:"location,omitempty"`
	WorkMode       WorkMode       `json:"workMode"`
	SeniorityLevel SeniorityLevel `json:"seniorityLevel"`
	Requirements   Requirements   `json:"requirements"`
	Compensation   *Compensation  `json:"compensation,omitempty"`
	Signals        Signals        `json:"signals"`
	RedFlags       []RedFlag      `json:"redFlags"`
	Highlights     []string       `json:"highlights"`
	Summary        string         `json:"summary"`
}
