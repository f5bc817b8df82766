package services

import (
	"fmt"
	"strings"

	"vocaresume/api/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildTaskPrompt renders the prompt for one of the four task labels against
// the candidate's resume, the job description, and whatever corpus context
// (previous queries) the router accumulated.
func (pb *PromptBuilder) BuildTaskPrompt(task models.TaskLabel, resumeText, jobDescText, corpusContext string) string {
	var instructions string

	switch task {
	case models.TaskInterview:
		instructions = `Generate exactly 5 technical interview questions strictly derived from the technologies, tools, and implementations mentioned in the candidate's resume. Structure your response as:

## 🎯 TECHNICAL INTERVIEW PREPARATION GUIDE

For each question provide:
- The question itself, tied to a specific resume claim
- Detailed answer guidance
- An example response demonstrating the expected depth

Do not include behavioral questions.`

	case models.TaskSuggestions:
		instructions = `Provide detailed resume improvement suggestions with professional formatting. Structure your response as:

## 💡 RESUME OPTIMIZATION GUIDE

Include prioritized improvements, specific before/after examples, and an actionable checklist aligned with the job description.`

	case models.TaskJobFit:
		instructions = `Evaluate how well the candidate fits the job with detailed scoring. Structure your response as:

## ⭐ JOB FIT ASSESSMENT REPORT

Cover skills alignment, experience match, and gaps, then end with a single line in exactly this format:
**Job Fit Score: [X]/100**`

	default:
		instructions = `Analyze the provided resume against the job description with professional formatting. Structure your response as:

## 📊 RESUME ANALYSIS REPORT

Cover strengths, gaps, and recommendations. Use bullet points, clear headers, and professional language throughout.`
	}

	return fmt.Sprintf(`You are an expert career assistant.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

RELATED CONTEXT:
%s

%s`, jobDescText, resumeText, corpusContext, instructions)
}

// FormatCorpusContext renders the recent query history for prompt injection.
func FormatCorpusContext(queryHistory []string) string {
	if len(queryHistory) == 0 {
		return "None."
	}

	var parts []string
	for i, q := range queryHistory {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, q))
	}

	return "Previous questions from this candidate:\n" + strings.Join(parts, "\n")
}
