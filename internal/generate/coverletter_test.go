package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dizid/unplugged-cv/internal/types"
)

var longCV = strings.Repeat("Led the payments platform team through a Go rewrite.\n", 4)

func TestGenerateCoverLetterShortCV(t *testing.T) {
	client := &fakeClient{}
	o := New(client, nil, nil, quietLogger())

	_, err := o.GenerateCoverLetter(context.Background(), "short", &types.JobRequirements{Title: "Engineer"}, nil, nil)

	var short *types.InputTooShortError
	require.True(t, errors.As(err, &short))
	assert.Zero(t, client.callCount())
}

func TestGenerateCoverLetterMissingJobContext(t *testing.T) {
	client := &fakeClient{}
	o := New(client, nil, nil, quietLogger())

	for _, req := range []*types.JobRequirements{nil, {Title: "   "}} {
		_, err := o.GenerateCoverLetter(context.Background(), longCV, req, nil, nil)

		var missing *types.MissingJobContextError
		require.True(t, errors.As(err, &missing))
	}
	assert.Zero(t, client.callCount())
}

func TestGenerateCoverLetterPromptContents(t *testing.T) {
	client := &fakeClient{responses: [][]string{{"Dear hiring team,"}}}
	o := New(client, nil, nil, quietLogger())

	req := &types.JobRequirements{
		Title:   "Backend Engineer",
		Company: "Acme",
		Requirements: types.Requirements{
			MustHave: []types.Requirement{{Skill: "Go"}, {Skill: "Postgres"}},
		},
		Signals: types.Signals{TechStack: []string{"Kubernetes"}},
	}
	match := &types.MatchResult{
		Score: 82,
		SkillMatches: []types.SkillMatch{
			{Skill: "Go", Matched: true},
			{Skill: "Kafka", Matched: false},
		},
		Gaps:          []string{"Kafka"},
		TalkingPoints: []string{"payments rewrite"},
	}

	_, err := o.GenerateCoverLetter(context.Background(), longCV, req, match, nil)
	require.NoError(t, err)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Acme")
	assert.Contains(t, prompt, "Go, Postgres")
	assert.Contains(t, prompt, "Kubernetes")
	assert.Contains(t, prompt, "82/100")
	assert.Contains(t, prompt, "Confirmed strengths: Go")
	assert.NotContains(t, prompt, "Confirmed strengths: Go, Kafka", "unmatched skills are not strengths")
	assert.Contains(t, prompt, "payments rewrite")
	assert.Contains(t, prompt, longCV)
}

func TestGenerateCoverLetterWithoutMatch(t *testing.T) {
	client := &fakeClient{responses: [][]string{{"Dear hiring team,"}}}
	o := New(client, nil, nil, quietLogger())

	_, err := o.GenerateCoverLetter(context.Background(), longCV, &types.JobRequirements{Title: "Engineer"}, nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, client.prompts[0], "## Match Analysis")
}

func TestGenerateCoverLetterStreamsAndTrims(t *testing.T) {
	client := &fakeClient{responses: [][]string{{"Dear hiring team,\n", "I am writing...\n\n"}}}
	o := New(client, nil, nil, quietLogger())

	var streamed []string
	letter, err := o.GenerateCoverLetter(context.Background(), longCV, &types.JobRequirements{Title: "Engineer"}, nil, func(chunk string) error {
		streamed = append(streamed, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Dear hiring team,\nI am writing...", letter)
	assert.Len(t, streamed, 2)
}
