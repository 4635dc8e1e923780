package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dizid/unplugged-cv/internal/billing"
	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"input too short", &types.InputTooShortError{What: "cv", Min: 100}, http.StatusBadRequest},
		{"missing job context", &types.MissingJobContextError{}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "slug", Message: "bad"}, http.StatusBadRequest},
		{"webhook signature", &billing.SignatureError{}, http.StatusBadRequest},
		{"quota", &billing.QuotaExceededError{}, http.StatusPaymentRequired},
		{"entitlement", &ErrEntitlementRequired{}, http.StatusForbidden},
		{"not found", &db.NotFoundError{Kind: "application"}, http.StatusNotFound},
		{"slug conflict", &db.SlugConflictError{Slug: "taken"}, http.StatusConflict},
		{"generation failed", &llm.GenerationError{Message: "boom"}, http.StatusInternalServerError},
		{"malformed output", &llm.MalformedOutputError{Raw: "not json"}, http.StatusInternalServerError},
		{"unknown", errors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestClientMessageHidesServerErrors(t *testing.T) {
	// Raw model output must never leak to clients
	err := &llm.MalformedOutputError{Raw: `{"secret": "internal"}`}
	assert.Equal(t, "Internal server error", clientMessage(err))

	short := &types.InputTooShortError{What: "career background", Min: 10}
	assert.Equal(t, short.Error(), clientMessage(short))
}
