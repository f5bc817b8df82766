package models

import (
	"encoding/json"
	"fmt"
)

// TaskLabel is one of the fixed analysis categories a query can be routed to.
type TaskLabel string

const (
	TaskAnalysis    TaskLabel = "analysis"
	TaskInterview   TaskLabel = "interview"
	TaskSuggestions TaskLabel = "suggestions"
	TaskJobFit      TaskLabel = "job_fit"
)

// DefaultTask is where empty or unmatched queries land.
const DefaultTask = TaskAnalysis

// AllTasks lists every label in fallback tie-break priority order
// (interview > suggestions > job_fit > analysis).
var AllTasks = []TaskLabel{
	TaskInterview,
	TaskSuggestions,
	TaskJobFit,
	TaskAnalysis,
}

// TaskBlurbs are the embedding anchors seeded into the routing collection.
var TaskBlurbs = map[TaskLabel]string{
	TaskAnalysis:    "Comprehensive resume vs job description analysis with strengths, gaps, and recommendations",
	TaskInterview:   "In-depth technical interview questions strictly derived from the candidate resume technologies and implementations",
	TaskSuggestions: "Actionable resume improvement suggestions and optimization guidance",
	TaskJobFit:      "Job fit scoring and suitability assessment with a quantified score and reasoning",
}

// TaskKeywords drive the keyword fallback path of the router.
var TaskKeywords = map[TaskLabel][]string{
	TaskInterview:   {"interview", "question", "questions", "technical"},
	TaskSuggestions: {"improve", "improvement", "suggest", "suggestions", "optimize", "enhance", "rewrite"},
	TaskJobFit:      {"fit", "score", "match", "suitability", "chances"},
}

func ParseTaskLabel(s string) (TaskLabel, error) {
	switch TaskLabel(s) {
	case TaskAnalysis, TaskInterview, TaskSuggestions, TaskJobFit:
		return TaskLabel(s), nil
	}
	return "", fmt.Errorf("unknown task label: %q", s)
}

// RouteProvenance indicates which routing path produced a result.
type RouteProvenance string

const (
	ProvenanceVector  RouteProvenance = "vector"
	ProvenanceKeyword RouteProvenance = "keyword"
)

// TaskScore is one ranked routing candidate.
type TaskScore struct {
	Task  TaskLabel `json:"task"`
	Score float32   `json:"score"`
}

// RoutingResult is the outcome of one routing call.
type RoutingResult struct {
	Task         TaskLabel       `json:"task"`
	Score        float32         `json:"score"`
	Alternatives []TaskScore     `json:"alternatives,omitempty"`
	Provenance   RouteProvenance `json:"provenance"`
}

// EncodeTaskScores serializes ranked alternatives for persistence on the
// analysis row. Empty input encodes to the empty string.
func EncodeTaskScores(scores []TaskScore) (string, error) {
	if len(scores) == 0 {
		return "", nil
	}

	data, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("failed to encode task scores: %w", err)
	}

	return string(data), nil
}

// DecodeTaskScores is the inverse of EncodeTaskScores.
func DecodeTaskScores(encoded string) ([]TaskScore, error) {
	if encoded == "" {
		return nil, nil
	}

	var scores []TaskScore
	if err := json.Unmarshal([]byte(encoded), &scores); err != nil {
		return nil, fmt.Errorf("failed to decode task scores: %w", err)
	}

	return scores, nil
}
