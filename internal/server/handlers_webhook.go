package server

import (
	"io"
	"net/http"
)

// maxWebhookBody caps webhook payload size.
const maxWebhookBody = 1 << 20

// handlePaymentWebhook processes provider payment events. The provider
// retries on non-2xx, so verification failures return 400 and processing
// failures 500 to trigger redelivery.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		s.logger.Error("payment webhook received but no ledger is configured")
		s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing signature header")
		return
	}

	if err := s.ledger.HandleEvent(r.Context(), payload, sigHeader); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"received": true})
}
