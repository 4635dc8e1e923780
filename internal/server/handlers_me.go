package server

import (
	"encoding/json"
	"net/http"

	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/server/middleware"
)

// StatusResponse is the response for /api/me/status.
type StatusResponse struct {
	HasPaid   bool `json:"hasPaid"`
	FreeCount int  `json:"freeCount"`
	FreeLimit int  `json:"freeLimit"`
}

// BackgroundRequest is the request body for PUT /api/me/background.
type BackgroundRequest struct {
	Background string `json:"background" validate:"required"`
}

// handleMeStatus reports the caller's entitlement and free-tier usage.
// Anonymous callers get the unpaid default rather than an error.
func (s *Server) handleMeStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{FreeLimit: s.quota.Limit()}

	if userID, err := middleware.GetUserID(r); err == nil && s.store != nil {
		acct, err := s.store.GetOrCreateAccount(r.Context(), userID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		resp.HasPaid = acct.HasPaid
		resp.FreeCount = acct.FreeCount
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetBackground returns the caller's saved career background.
func (s *Server) handleGetBackground(w http.ResponseWriter, r *http.Request) {
	acct, err := s.account(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"background": acct.CareerBackground})
}

// handlePutBackground saves the caller's reusable career background.
func (s *Server) handlePutBackground(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if s.store == nil {
		s.handleError(w, r, &db.NotFoundError{Kind: "account"})
		return
	}

	var body BackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&body); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "background", Message: "background is required"})
		return
	}

	if err := s.store.SaveBackground(r.Context(), userID, body.Background); err != nil {
		s.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
