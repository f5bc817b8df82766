package services

import (
	"context"
	"fmt"
	"log"

	"vocaresume/api/internal/models"
)

// IngestService loads an uploaded document into a session: extracts its
// text, refreshes the routing corpus, invalidates the response cache, and
// best-effort indexes the content for vector routing.
type IngestService interface {
	IngestDocument(ctx context.Context, session *Session, docType models.DocumentType, filePath string) (string, error)
}

type ingestService struct {
	parser   PDFParserService
	chunker  TextChunker
	embedder Embedder
	index    VectorIndexService
}

// NewIngestService builds the ingester. embedder and index may be nil when
// the vector backend is unavailable; indexing is then skipped and routing
// falls back to keywords.
func NewIngestService(parser PDFParserService, chunker TextChunker, embedder Embedder, index VectorIndexService) IngestService {
	return &ingestService{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
	}
}

// IngestDocument implements IngestService.
func (s *ingestService) IngestDocument(ctx context.Context, session *Session, docType models.DocumentType, filePath string) (string, error) {
	text, err := s.parser.ExtractText(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	switch docType {
	case models.DocTypeResume:
		session.Corpus.SetResume(text)
	case models.DocTypeJobDesc:
		session.Corpus.SetJobDesc(text)
	default:
		return "", fmt.Errorf("unknown document type: %q", docType)
	}

	// New inputs invalidate any cached analysis for the session.
	session.Cache.Clear()

	s.indexChunks(ctx, session, docType, text)

	return text, nil
}

// indexChunks is best-effort: a failed embedding or upsert only degrades
// routing, never the upload.
func (s *ingestService) indexChunks(ctx context.Context, session *Session, docType models.DocumentType, text string) {
	if s.embedder == nil || s.index == nil {
		return
	}

	chunks := s.chunker.ChunkText(text, 1000, 100)
	for _, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("⚠️ Failed to embed %s chunk: %v\n", docType, err)
			return
		}

		if err := s.index.UpsertSessionText(ctx, session.Corpus.SessionID(), string(docType), chunk, embedding); err != nil {
			log.Printf("⚠️ Failed to index %s chunk: %v\n", docType, err)
			return
		}
	}

	log.Printf("📚 Indexed %d %s chunks for session %s\n", len(chunks), docType, session.ID)
}
