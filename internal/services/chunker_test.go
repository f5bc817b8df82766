package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("A short resume paragraph.", 1000, 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "A short resume paragraph.", chunks[0])
}

func TestChunkText_SplitsOnParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.Repeat("alpha ", 20)
	paraB := strings.Repeat("bravo ", 20)
	text := strings.TrimSpace(paraA) + "\n\n" + strings.TrimSpace(paraB)

	chunks := chunker.ChunkText(text, 130, 0)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "alpha")
	assert.Contains(t, chunks[1], "bravo")
	assert.NotContains(t, chunks[1], "alpha")
}

func TestChunkText_OversizedParagraphFallsBackToSentences(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("This is one full sentence about backend work. ")
	}

	chunks := chunker.ChunkText(sb.String(), 200, 0)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
	}
}

func TestChunkText_OverlapCarriesContext(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.TrimSpace(strings.Repeat("alpha ", 20))
	paraB := strings.TrimSpace(strings.Repeat("bravo ", 20))

	chunks := chunker.ChunkText(paraA+"\n\n"+paraB, 130, 20)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[1], "alpha")
	assert.Contains(t, chunks[1], "bravo")
}

func TestChunkText_EmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 100))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 100))
}
