package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"vocaresume/api/internal/models"
)

// TaskRouter maps a free-form query to one of the fixed task labels. Route
// never fails: any backend error degrades to the keyword path, and the
// result's provenance records which path ran.
type TaskRouter interface {
	Route(ctx context.Context, query string, corpus *RoutingCorpus) *models.RoutingResult
}

type routerService struct {
	embedder     Embedder
	index        VectorIndexService
	topK         int
	keywordExprs map[models.TaskLabel][]*regexp.Regexp
}

// NewTaskRouter builds a router. embedder and index may be nil when the
// vector backend failed to construct; the router then always takes the
// keyword path.
func NewTaskRouter(embedder Embedder, index VectorIndexService, topK int) TaskRouter {
	if topK <= 0 {
		topK = 3
	}

	exprs := make(map[models.TaskLabel][]*regexp.Regexp)
	for label, keywords := range models.TaskKeywords {
		for _, kw := range keywords {
			exprs[label] = append(exprs[label], regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}

	return &routerService{
		embedder:     embedder,
		index:        index,
		topK:         topK,
		keywordExprs: exprs,
	}
}

// Route implements TaskRouter.
func (r *routerService) Route(ctx context.Context, query string, corpus *RoutingCorpus) *models.RoutingResult {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &models.RoutingResult{
			Task:       models.DefaultTask,
			Score:      0,
			Provenance: models.ProvenanceKeyword,
		}
	}

	// The only adaptation the router performs: remember the query so future
	// routing can lean on accumulated patterns.
	corpus.AppendQuery(trimmed)

	if r.embedder != nil && r.index != nil {
		if result, err := r.routeVector(ctx, trimmed, corpus); err == nil {
			return result
		} else {
			log.Printf("⚠️ Vector routing unavailable, using keyword fallback: %v\n", err)
		}
	}

	return r.routeKeyword(trimmed)
}

func (r *routerService) routeVector(ctx context.Context, query string, corpus *RoutingCorpus) (*models.RoutingResult, error) {
	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := r.index.SearchTasks(ctx, embedding, r.topK+1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("vector index returned no candidates")
	}

	// Best-effort: the query joins the session corpus in the index too.
	if err := r.index.UpsertSessionText(ctx, corpus.SessionID(), docTypeQueryHistory, query, embedding); err != nil {
		log.Printf("⚠️ Failed to index query history: %v\n", err)
	}

	alternatives := candidates[1:]
	if len(alternatives) > r.topK {
		alternatives = alternatives[:r.topK]
	}

	return &models.RoutingResult{
		Task:         candidates[0].Task,
		Score:        candidates[0].Score,
		Alternatives: alternatives,
		Provenance:   models.ProvenanceVector,
	}, nil
}

// routeKeyword scores each label by distinct keyword hits. Ties resolve in
// the fixed priority order of models.AllTasks; no hits at all selects the
// default label.
func (r *routerService) routeKeyword(query string) *models.RoutingResult {
	q := strings.ToLower(query)

	priority := make(map[models.TaskLabel]int, len(models.AllTasks))
	for i, label := range models.AllTasks {
		priority[label] = i
	}

	ranked := make([]models.TaskScore, 0, len(models.AllTasks))
	for _, label := range models.AllTasks {
		hits := 0
		for _, expr := range r.keywordExprs[label] {
			if expr.MatchString(q) {
				hits++
			}
		}
		ranked = append(ranked, models.TaskScore{Task: label, Score: float32(hits)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return priority[ranked[i].Task] < priority[ranked[j].Task]
	})

	selected := ranked[0]
	if selected.Score == 0 {
		return &models.RoutingResult{
			Task:       models.DefaultTask,
			Score:      0,
			Provenance: models.ProvenanceKeyword,
		}
	}

	alternatives := ranked[1:]
	if len(alternatives) > r.topK {
		alternatives = alternatives[:r.topK]
	}

	return &models.RoutingResult{
		Task:         selected.Task,
		Score:        selected.Score,
		Alternatives: alternatives,
		Provenance:   models.ProvenanceKeyword,
	}
}
