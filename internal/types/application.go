package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus tracks an application through its lifecycle.
type ApplicationStatus string

// ApplicationStatus values, in rough lifecycle order.
const (
	StatusDraft     ApplicationStatus = "draft"
	StatusSaved     ApplicationStatus = "saved"
	StatusApplied   ApplicationStatus = "applied"
	StatusScreening ApplicationStatus = "screening"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// ValidStatus reports whether s is a defined application status.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusDraft, StatusSaved, StatusApplied, StatusScreening,
		StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application is a persisted CV generation with its job context and
// lifecycle metadata. ParsedJob and MatchDetails hold serialized
// JobRequirements / MatchResult JSON.
type Application struct {
	ID             uuid.UUID         `json:"id"`
	UserID         string            `json:"user_id"`
	JobDescription string            `json:"job_description,omitempty"`
	JobTitle       string            `json:"job_title,omitempty"`
	CompanyName    string            `json:"company_name,omitempty"`
	ParsedJob      []byte            `json:"parsed_job,omitempty"`
	GeneratedCV    string            `json:"generated_cv"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	ModelUsed      string            `json:"model_used,omitempty"`
	Status         ApplicationStatus `json:"status"`
	Slug           string            `json:"slug,omitempty"`
	IsPublished    bool              `json:"is_published"`
	MatchScore     *int              `json:"match_score,omitempty"`
	MatchDetails   []byte            `json:"match_details,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	AppliedAt      *time.Time        `json:"applied_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
