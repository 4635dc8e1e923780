package prompts

import "strings"

// System prompt accessors. Panics here mean a build problem (missing embed),
// not a runtime condition worth handling.

// CVSystem returns the system prompt for CV generation.
func CVSystem() string { return MustGet("cv_system.txt") }

// JobParserSystem returns the system prompt for job posting analysis.
func JobParserSystem() string { return MustGet("job_parser_system.txt") }

// MatchSystem returns the system prompt for CV/job match scoring.
func MatchSystem() string { return MustGet("match_system.txt") }

// CoverLetterSystem returns the system prompt for cover letter writing.
func CoverLetterSystem() string { return MustGet("cover_letter_system.txt") }

// CVUser builds the user prompt for CV generation from the candidate's
// background and an optional target job description.
func CVUser(background, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("Create a professional CV based on the following career information.\n\n")
	sb.WriteString("## My Background\n")
	sb.WriteString(background)

	if strings.TrimSpace(jobDescription) != "" {
		sb.WriteString("\n\n## Target Job\n")
		sb.WriteString(jobDescription)
		sb.WriteString("\n\nPlease tailor the CV to highlight experience relevant to this role.")
	}

	sb.WriteString("\n\n---\n\n")
	sb.WriteString("Generate a clean, professional CV in markdown format.\n")
	sb.WriteString("- Focus on outcomes and achievements\n")
	sb.WriteString("- Keep it honest and specific\n")
	sb.WriteString("- If key information is missing, note what would strengthen the CV at the end")
	return sb.String()
}

// JobParserUser builds the user prompt for job posting analysis.
func JobParserUser(jobText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this job description and extract structured information.\n\n")
	sb.WriteString("## Job Description\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString("Return only valid JSON matching the specified structure. Be thorough in identifying requirements and red flags.")
	return sb.String()
}
