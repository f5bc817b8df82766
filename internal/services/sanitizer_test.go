package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForSpeech_StripsMarkdownTokens(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	markdown := "## 📊 RESUME ANALYSIS REPORT\n\n" +
		"**Strengths** include *five years* of `Go` experience.\n\n" +
		"- Strong backend background\n" +
		"- Familiar with [Kubernetes](https://kubernetes.io)\n\n" +
		"```\nfmt.Println(\"hello\")\n```\n"

	out := sanitizer.NormalizeForSpeech(markdown)

	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "*")
	assert.NotContains(t, out, "`")
	assert.NotContains(t, out, "](")
	assert.Contains(t, out, "Strengths include five years of Go experience.")
	assert.Contains(t, out, "Kubernetes")
	assert.NotContains(t, out, "https://kubernetes.io")
}

func TestNormalizeForSpeech_HeadingsBecomeSpokenIntros(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.NormalizeForSpeech("# Key Skills\nGo and Postgres.")

	assert.True(t, strings.HasPrefix(out, "Key Skills:"), "got %q", out)
}

func TestNormalizeForSpeech_HeadingWithTrailingColon(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.NormalizeForSpeech("## Next steps:\nApply this week.")

	assert.True(t, strings.HasPrefix(out, "Next steps:"), "got %q", out)
	assert.NotContains(t, out, "::")
}

func TestNormalizeForSpeech_BulletsKeepListCadence(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.NormalizeForSpeech("- first item\n* second item\n+ third item")

	assert.Equal(t, "• first item • second item • third item", out)
}

func TestNormalizeForSpeech_ShortCodeBlockInlined(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.NormalizeForSpeech("Run this:\n```\ngo run main.go\n```")

	assert.Contains(t, out, "go run main.go")
	assert.NotContains(t, out, codeBlockPlaceholder)
}

func TestNormalizeForSpeech_LongCodeBlockOmitted(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	code := strings.Repeat("x := computeSomethingVeryLong(a, b, c)\n", 5)
	out := sanitizer.NormalizeForSpeech("Example:\n```go\n" + code + "```")

	assert.Contains(t, out, codeBlockPlaceholder)
	assert.NotContains(t, out, "computeSomethingVeryLong")
}

func TestNormalizeForSpeech_TruncatesAtSentenceBoundary(t *testing.T) {
	sanitizer := NewSanitizerService(40)

	out := sanitizer.NormalizeForSpeech("First sentence here. Second sentence is long and keeps going past the limit.")

	assert.Equal(t, "First sentence here.", out)
	assert.False(t, strings.HasSuffix(out, "..."))
}

func TestNormalizeForSpeech_TruncatesAtWordBoundaryWithoutSentenceEnd(t *testing.T) {
	sanitizer := NewSanitizerService(25)

	out := sanitizer.NormalizeForSpeech("alpha bravo charlie delta echo foxtrot")

	assert.Equal(t, "alpha bravo charlie", out)
}

func TestNormalizeForSpeech_PlainTextPassesThrough(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	plain := "Your resume shows strong Go experience. Consider adding metrics."
	first := sanitizer.NormalizeForSpeech(plain)
	second := sanitizer.NormalizeForSpeech(first)

	assert.Equal(t, plain, first)
	assert.Equal(t, first, second)
}

func TestNormalizeForSpeech_EmptyInput(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	assert.Equal(t, "", sanitizer.NormalizeForSpeech(""))
	assert.Equal(t, "", sanitizer.NormalizeForSpeech("   \n\t  "))
}

func TestNormalizeForSpeech_UnterminatedFence(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.NormalizeForSpeech("Intro text.\n```\ncode without closing fence")

	assert.Contains(t, out, "Intro text.")
	assert.Contains(t, out, "code without closing fence")
}

func TestStripToPlain(t *testing.T) {
	sanitizer := NewSanitizerService(0)

	out := sanitizer.StripToPlain("Hello <b>world</b>! {weird} ~~tokens~~ stay out, text stays.")

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "{")
	assert.NotContains(t, out, "~")
	assert.Contains(t, out, "world")
	assert.Contains(t, out, "text stays.")
}
