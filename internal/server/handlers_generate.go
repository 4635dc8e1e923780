package server

import (
	"encoding/json"
	"net/http"

	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/generate"
	"github.com/dizid/unplugged-cv/internal/server/middleware"
	"github.com/dizid/unplugged-cv/internal/types"
)

// GenerateCVRequest is the request body for /api/generate.
type GenerateCVRequest struct {
	Background     string                 `json:"background"`
	JobDescription string                 `json:"jobDescription,omitempty"`
	ParsedJob      *types.JobRequirements `json:"parsedJob,omitempty"`
	BypassToken    string                 `json:"bypassToken,omitempty"`
}

// ParseJobRequest is the request body for /api/parse-job.
type ParseJobRequest struct {
	JobDescription string `json:"jobDescription"`
}

// MatchScoreRequest is the request body for /api/match-score.
type MatchScoreRequest struct {
	CV        string                 `json:"cv"`
	ParsedJob *types.JobRequirements `json:"parsedJob"`
}

// CoverLetterRequest is the request body for /api/cover-letter.
type CoverLetterRequest struct {
	CV          string                 `json:"cv"`
	ParsedJob   *types.JobRequirements `json:"parsedJob"`
	MatchResult *types.MatchResult     `json:"matchResult,omitempty"`
}

// handleGenerate streams a generated CV as plain text. Works for
// anonymous callers; authenticated callers get quota enforcement and a
// persisted draft application.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body GenerateCVRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := generate.GenerateRequest{
		Background:     body.Background,
		JobDescription: body.JobDescription,
		ParsedJob:      body.ParsedJob,
		SkipQuota:      s.quota.BypassAllowed(body.BypassToken),
	}

	if userID, err := middleware.GetUserID(r); err == nil && s.store != nil {
		acct, err := s.store.GetOrCreateAccount(r.Context(), userID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		req.Account = acct
	}

	stream, err := NewStreamWriter(w)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if _, err := s.orchestrator.GenerateCV(r.Context(), req, stream.WriteChunk); err != nil {
		if stream.Started() {
			// Status is already on the wire; all we can do is cut the
			// stream short.
			s.logger.Error("generation stream aborted", "error", err)
			return
		}
		s.handleError(w, r, err)
	}
}

// handleParseJob extracts structured requirements from a job posting.
func (s *Server) handleParseJob(w http.ResponseWriter, r *http.Request) {
	var body ParseJobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parsed, err := s.analyzer.Analyze(r.Context(), body.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, parsed)
}

// handleMatchScore scores a CV against parsed job requirements.
func (s *Server) handleMatchScore(w http.ResponseWriter, r *http.Request) {
	var body MatchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.scorer.Score(r.Context(), body.CV, body.ParsedJob)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleCoverLetter streams a cover letter as plain text. Paid accounts
// only.
func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	acct, err := s.account(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !acct.HasPaid {
		s.handleError(w, r, &ErrEntitlementRequired{})
		return
	}

	var body CoverLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stream, err := NewStreamWriter(w)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if _, err := s.orchestrator.GenerateCoverLetter(r.Context(), body.CV, body.ParsedJob, body.MatchResult, stream.WriteChunk); err != nil {
		if stream.Started() {
			s.logger.Error("cover letter stream aborted", "error", err)
			return
		}
		s.handleError(w, r, err)
	}
}

// account loads the authenticated caller's account. Only called behind
// RequireAuth.
func (s *Server) account(r *http.Request) (*types.Account, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, &db.NotFoundError{Kind: "account"}
	}
	return s.store.GetOrCreateAccount(r.Context(), userID)
}
