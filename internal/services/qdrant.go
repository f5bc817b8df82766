package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"vocaresume/api/internal/models"
)

// VectorIndexService backs the router's primary path. The collection holds
// the four task anchor blurbs (global) plus per-session corpus documents and
// query history, separated by payload filters.
type VectorIndexService interface {
	InitCollection(ctx context.Context) error
	SeedTaskAnchors(ctx context.Context, embedder Embedder) error
	SearchTasks(ctx context.Context, queryEmbedding []float32, limit int) ([]models.TaskScore, error)
	UpsertSessionText(ctx context.Context, sessionID, docType, text string, embedding []float32) error
	DeleteSession(ctx context.Context, sessionID string) error
}

const (
	docTypeTaskAnchor   = "task_anchor"
	docTypeQueryHistory = "query_history"
)

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (VectorIndexService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements VectorIndexService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Routing collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// SeedTaskAnchors implements VectorIndexService. Each task blurb is embedded
// once and upserted under a deterministic point id so reseeding is idempotent.
func (q *qdrantService) SeedTaskAnchors(ctx context.Context, embedder Embedder) error {
	for _, label := range models.AllTasks {
		blurb := models.TaskBlurbs[label]

		embedding, err := embedder.GenerateEmbedding(ctx, blurb)
		if err != nil {
			return fmt.Errorf("failed to embed task anchor %s: %w", label, err)
		}

		anchorID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("task_anchor:"+string(label)))

		point := &qdrant.PointStruct{
			Id:      qdrant.NewID(anchorID.String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"doc_type": docTypeTaskAnchor,
				"label":    string(label),
				"text":     blurb,
			}),
		}

		_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: q.collectionName,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			return fmt.Errorf("failed to upsert task anchor %s: %w", label, err)
		}
	}

	log.Printf("✅ Seeded %d task anchors\n", len(models.AllTasks))
	return nil
}

// SearchTasks implements VectorIndexService. Returns ranked task candidates
// restricted to the anchor blurbs.
func (q *qdrantService) SearchTasks(ctx context.Context, queryEmbedding []float32, limit int) ([]models.TaskScore, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_type", docTypeTaskAnchor),
		},
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search task anchors: %w", err)
	}

	var results []models.TaskScore
	for _, point := range searchResult {
		labelValue, ok := point.Payload["label"]
		if !ok {
			continue
		}

		val, ok := labelValue.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}

		label, err := models.ParseTaskLabel(val.StringValue)
		if err != nil {
			// never surface an out-of-vocabulary task
			continue
		}

		results = append(results, models.TaskScore{
			Task:  label,
			Score: point.Score,
		})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no task anchors found in collection")
	}

	return results, nil
}

// UpsertSessionText implements VectorIndexService. Session documents carry a
// session_id payload so concurrent sessions never see each other's corpus.
func (q *qdrantService) UpsertSessionText(ctx context.Context, sessionID, docType, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.New().String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"doc_type":   docType,
			"session_id": sessionID,
			"text":       text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert session text: %w", err)
	}

	return nil
}

// DeleteSession implements VectorIndexService.
func (q *qdrantService) DeleteSession(ctx context.Context, sessionID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("session_id", sessionID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete session vectors: %w", err)
	}

	return nil
}
