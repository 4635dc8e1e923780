package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/server/middleware"
	"github.com/dizid/unplugged-cv/internal/types"
)

// CreateApplicationRequest is the request body for POST /api/applications.
// Used when saving an externally edited CV rather than a fresh generation.
type CreateApplicationRequest struct {
	JobDescription string `json:"jobDescription,omitempty"`
	JobTitle       string `json:"jobTitle,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	GeneratedCV    string `json:"generatedCv" validate:"required"`
	CoverLetter    string `json:"coverLetter,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// UpdateApplicationRequest is the request body for PATCH /api/applications/{id}.
type UpdateApplicationRequest struct {
	Status      *string    `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
	CoverLetter *string    `json:"coverLetter,omitempty"`
	MatchScore  *int       `json:"matchScore,omitempty"`
}

// PublishRequest is the request body for POST /api/applications/{id}/publish.
type PublishRequest struct {
	Slug string `json:"slug" validate:"required,slug"`
}

// PublicCVResponse is the response for GET /api/cv/{slug}.
type PublicCVResponse struct {
	CV          string    `json:"cv"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil || s.store == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "account"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	apps, err := s.store.ListApplications(r.Context(), userID, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if apps == nil {
		apps = []*types.Application{}
	}

	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil || s.store == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "account"})
		return
	}

	var body CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&body); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "generatedCv", Message: "generatedCv is required"})
		return
	}

	app := &types.Application{
		UserID:         userID,
		JobDescription: body.JobDescription,
		JobTitle:       body.JobTitle,
		CompanyName:    body.CompanyName,
		GeneratedCV:    body.GeneratedCV,
		CoverLetter:    body.CoverLetter,
		Notes:          body.Notes,
		Status:         types.StatusSaved,
	}
	if err := s.store.CreateApplication(r.Context(), app); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.applicationRef(w, r)
	if !ok {
		return
	}

	app, err := s.store.GetApplication(r.Context(), id, userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if app == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "application"})
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.applicationRef(w, r)
	if !ok {
		return
	}

	var body UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := db.ApplicationUpdate{
		Notes:       body.Notes,
		AppliedAt:   body.AppliedAt,
		CoverLetter: body.CoverLetter,
		MatchScore:  body.MatchScore,
	}
	if body.Status != nil {
		status := types.ApplicationStatus(*body.Status)
		if !types.ValidStatus(status) {
			s.handleError(w, r, &ErrValidation{Field: "status", Message: "unknown status"})
			return
		}
		upd.Status = &status
	}

	if err := s.store.UpdateApplication(r.Context(), id, userID, upd); err != nil {
		s.handleError(w, r, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), id, userID)
	if err != nil || app == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "application"})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.applicationRef(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteApplication(r.Context(), id, userID); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePublishApplication makes a CV publicly readable under a slug.
// Paid accounts only.
func (s *Server) handlePublishApplication(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := s.applicationRef(w, r)
	if !ok {
		return
	}

	acct, err := s.account(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !acct.HasPaid {
		s.handleError(w, r, &ErrEntitlementRequired{})
		return
	}

	var body PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&body); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "slug", Message: "slug must be 3-50 lowercase letters, digits or hyphens"})
		return
	}

	if err := s.store.PublishApplication(r.Context(), id, userID, body.Slug); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"slug": body.Slug})
}

// handlePublicCV serves a published CV. No authentication; only published
// records are reachable.
func (s *Server) handlePublicCV(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "CV"})
		return
	}

	slug := r.PathValue("slug")
	app, err := s.store.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if app == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "CV"})
		return
	}

	s.jsonResponse(w, http.StatusOK, PublicCVResponse{
		CV:          app.GeneratedCV,
		JobTitle:    app.JobTitle,
		CompanyName: app.CompanyName,
		UpdatedAt:   app.UpdatedAt,
	})
}

// applicationRef extracts the caller and the application ID from the
// request, writing the error response itself on failure.
func (s *Server) applicationRef(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil || s.store == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "application"})
		return "", uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return "", uuid.Nil, false
	}
	return userID, id, true
}
