package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vocaresume/api/internal/models"
)

func TestBuildTaskPrompt_IncludesInputsAndTaskInstructions(t *testing.T) {
	pb := NewPromptBuilder()

	prompt := pb.BuildTaskPrompt(
		models.TaskJobFit,
		"Go developer, 5 years.",
		"Senior backend engineer wanted.",
		"None.",
	)

	assert.Contains(t, prompt, "Go developer, 5 years.")
	assert.Contains(t, prompt, "Senior backend engineer wanted.")
	assert.Contains(t, prompt, "JOB FIT ASSESSMENT REPORT")
	assert.Contains(t, prompt, "Job Fit Score: [X]/100")
}

func TestBuildTaskPrompt_PerTaskSections(t *testing.T) {
	pb := NewPromptBuilder()

	cases := map[models.TaskLabel]string{
		models.TaskInterview:   "TECHNICAL INTERVIEW PREPARATION GUIDE",
		models.TaskSuggestions: "RESUME OPTIMIZATION GUIDE",
		models.TaskJobFit:      "JOB FIT ASSESSMENT REPORT",
		models.TaskAnalysis:    "RESUME ANALYSIS REPORT",
	}

	for task, want := range cases {
		prompt := pb.BuildTaskPrompt(task, "resume", "jd", "None.")
		assert.Contains(t, prompt, want, "task %s", task)
	}
}

func TestFormatCorpusContext(t *testing.T) {
	assert.Equal(t, "None.", FormatCorpusContext(nil))

	out := FormatCorpusContext([]string{"first question", "second question"})

	assert.Contains(t, out, "1. first question")
	assert.Contains(t, out, "2. second question")
}
