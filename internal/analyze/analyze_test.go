package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns a canned response and counts calls.
type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Complete(_ context.Context, _, _ string, _ llm.GenerationConfig) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Stream(_ context.Context, _, _ string, _ llm.GenerationConfig, emit func(string) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return emit(f.response)
}

func (f *fakeClient) Close() error { return nil }

const validJobJSON = `{
	"title": "Senior Go Engineer",
	"company": "Acme",
	"workMode": "remote",
	"seniorityLevel": "senior",
	"requirements": {
		"mustHave": [{"skill": "Go", "years": "5+"}],
		"niceToHave": [{"skill": "Kubernetes"}],
		"experience": "5+ years backend"
	},
	"signals": {"autonomy": "high", "techStack": ["Go"]},
	"redFlags": [{"flag": "rockstar wanted", "quote": "rockstar", "severity": "low"}],
	"highlights": ["small team"],
	"summary": "Backend role."
}`

func TestAnalyzeTooShort(t *testing.T) {
	client := &fakeClient{response: validJobJSON}
	analyzer := New(client)

	tests := []struct {
		name    string
		jobText string
	}{
		{name: "empty", jobText: ""},
		{name: "whitespace only", jobText: strings.Repeat(" ", 80)},
		{name: "exactly 49 characters", jobText: strings.Repeat("x", 49)},
		{name: "49 characters padded with whitespace", jobText: "  " + strings.Repeat("x", 49) + "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzer.Analyze(context.Background(), tt.jobText)
			var short *types.InputTooShortError
			require.True(t, errors.As(err, &short))
			assert.Equal(t, 0, client.calls, "no model call for short input")
		})
	}
}

func TestAnalyzeValidResponse(t *testing.T) {
	client := &fakeClient{response: validJobJSON}
	analyzer := New(client)

	req, err := analyzer.Analyze(context.Background(), strings.Repeat("job text ", 10))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", req.Title)
	assert.Equal(t, types.WorkModeRemote, req.WorkMode)
	assert.Equal(t, types.SenioritySenior, req.SeniorityLevel)
	assert.Len(t, req.Requirements.MustHave, 1)
	assert.Equal(t, 1, client.calls)
}

func TestAnalyzeFencedResponse(t *testing.T) {
	client := &fakeClient{response: "```json\n" + validJobJSON + "\n```"}
	analyzer := New(client)

	req, err := analyzer.Analyze(context.Background(), strings.Repeat("job text ", 10))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", req.Title)
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not JSON", response: "Sorry, I can't help with that."},
		{name: "wrong shape", response: `{"company": "Acme"}`},
		{name: "title wrong type", response: `{"title": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := New(&fakeClient{response: tt.response})
			_, err := analyzer.Analyze(context.Background(), strings.Repeat("job text ", 10))

			var malformed *llm.MalformedOutputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.response, malformed.Raw)
		})
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	upstream := &llm.GenerationError{Message: "quota exhausted"}
	analyzer := New(&fakeClient{err: upstream})

	_, err := analyzer.Analyze(context.Background(), strings.Repeat("job text ", 10))
	var gen *llm.GenerationError
	require.True(t, errors.As(err, &gen))
}
