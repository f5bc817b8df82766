package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	input := "  Line one  \n\n\n   Line two\t\n\n"

	assert.Equal(t, "Line one\nLine two", CleanText(input))
	assert.Equal(t, "", CleanText("   \n\n  \n"))
}

func TestExtractText_MissingFile(t *testing.T) {
	parser := NewPDFParserService()

	_, err := parser.ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))

	assert.Error(t, err)
}

func TestExtractText_ZeroByteFile(t *testing.T) {
	parser := NewPDFParserService()

	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := parser.ExtractText(path)

	assert.ErrorIs(t, err, ErrNoTextContent)
}
