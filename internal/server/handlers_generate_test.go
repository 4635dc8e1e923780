package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dizid/unplugged-cv/internal/types"
)

const longBackgroundJSON = `{"background": "Fifteen years building payment systems in Go and Postgres, leading small teams."}`

func TestHandleGenerateAnonymous(t *testing.T) {
	client := &stubClient{responses: []string{"# Jane Doe\n\nExperience..."}}
	s := newTestServer(t, nil, client)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(longBackgroundJSON))
	w := httptest.NewRecorder()
	s.handleGenerate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "# Jane Doe\n\nExperience...", w.Body.String())
}

func TestHandleGenerateShortBackground(t *testing.T) {
	s := newTestServer(t, nil, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"background": "short"}`))
	w := httptest.NewRecorder()
	s.handleGenerate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestHandleGenerateBadJSON(t *testing.T) {
	s := newTestServer(t, nil, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.handleGenerate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGenerateQuotaExhausted(t *testing.T) {
	store := newStubStore()
	store.accounts["user-1"] = &types.Account{ID: "user-1", FreeCount: 3}
	s := newTestServer(t, store, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(longBackgroundJSON))
	req = asUser(req, "user-1")
	w := httptest.NewRecorder()
	s.handleGenerate(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestHandleGeneratePersistsAndCounts(t *testing.T) {
	client := &stubClient{responses: []string{"# CV body"}}
	store := newStubStore()
	s := newTestServer(t, store, client)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(longBackgroundJSON))
	req = asUser(req, "user-1")
	w := httptest.NewRecorder()
	s.handleGenerate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.apps, 1)
	assert.Equal(t, 1, store.accounts["user-1"].FreeCount)
}

func TestHandleParseJob(t *testing.T) {
	jobJSON := `{"title": "Backend Engineer", "workMode": "remote", "seniorityLevel": "senior",
		"requirements": {"mustHave": [{"skill": "Go"}], "niceToHave": []},
		"signals": {"autonomy": "high", "techStack": ["Go"]},
		"redFlags": [], "highlights": [], "summary": "A fine role."}`
	client := &stubClient{responses: []string{jobJSON}}
	s := newTestServer(t, nil, client)

	body := `{"jobDescription": "` + strings.Repeat("We are hiring a backend engineer. ", 5) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/parse-job", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleParseJob(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var parsed types.JobRequirements
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "Backend Engineer", parsed.Title)
	assert.Equal(t, types.WorkModeRemote, parsed.WorkMode)
}

func TestHandleParseJobTooShort(t *testing.T) {
	s := newTestServer(t, nil, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/parse-job", strings.NewReader(`{"jobDescription": "tiny"}`))
	w := httptest.NewRecorder()
	s.handleParseJob(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleParseJobMalformedModelOutput(t *testing.T) {
	client := &stubClient{responses: []string{"here is your answer: sorry, no JSON"}}
	s := newTestServer(t, nil, client)

	body := `{"jobDescription": "` + strings.Repeat("We are hiring a backend engineer. ", 5) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/parse-job", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleParseJob(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Raw model output stays out of the response
	assert.NotContains(t, w.Body.String(), "sorry, no JSON")
}

func TestHandleMatchScore(t *testing.T) {
	client := &stubClient{responses: []string{`{"score": 87.4, "summary": "Strong fit",
		"skillMatches": [{"skill": "Go", "matched": true}], "gaps": [],
		"seniorityFit": "match", "talkingPoints": []}`}}
	s := newTestServer(t, nil, client)

	body := map[string]any{
		"cv":        strings.Repeat("Led the payments platform team through a Go rewrite. ", 4),
		"parsedJob": types.JobRequirements{Title: "Backend Engineer"},
	}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/match-score", strings.NewReader(string(raw)))
	w := httptest.NewRecorder()
	s.handleMatchScore(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result types.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 87, result.Score)
}

func TestHandleMatchScoreMissingJob(t *testing.T) {
	s := newTestServer(t, nil, &stubClient{})

	body := `{"cv": "` + strings.Repeat("Plenty of experience doing relevant work here. ", 4) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/match-score", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleMatchScore(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCoverLetterRequiresEntitlement(t *testing.T) {
	store := newStubStore()
	store.accounts["user-1"] = &types.Account{ID: "user-1"}
	s := newTestServer(t, store, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/cover-letter", strings.NewReader("{}"))
	req = asUser(req, "user-1")
	w := httptest.NewRecorder()
	s.handleCoverLetter(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleCoverLetterStreams(t *testing.T) {
	store := newStubStore()
	store.accounts["user-1"] = &types.Account{ID: "user-1", HasPaid: true}
	client := &stubClient{responses: []string{"Dear hiring team, I am writing to apply."}}
	s := newTestServer(t, store, client)

	body := map[string]any{
		"cv":        strings.Repeat("Led the payments platform team through a Go rewrite. ", 4),
		"parsedJob": types.JobRequirements{Title: "Backend Engineer"},
	}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/cover-letter", strings.NewReader(string(raw)))
	req = asUser(req, "user-1")
	w := httptest.NewRecorder()
	s.handleCoverLetter(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dear hiring team, I am writing to apply.", w.Body.String())
}
