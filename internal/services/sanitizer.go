package services

import (
	"regexp"
	"strings"
)

// SanitizerService converts analytical markdown into plain, speakable text.
// NormalizeForSpeech is pure: same input and limits always give the same output.
type SanitizerService interface {
	NormalizeForSpeech(markdown string) string
	StripToPlain(text string) string
}

const (
	// Fenced code blocks longer than this are replaced with a placeholder
	// instead of being read out loud.
	codeBlockInlineLimit = 80

	codeBlockPlaceholder = "(code block omitted)"

	defaultMaxSpeechChars = 4800
)

var (
	fenceRe    = regexp.MustCompile("^\\s*```")
	headingRe  = regexp.MustCompile(`^\s{0,3}#{1,6}\s*(.*?)\s*#*\s*$`)
	bulletRe   = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
	markupRe   = regexp.MustCompile("[#*_`~>]+")
	spaceRe    = regexp.MustCompile(`\s+`)
	nonPlainRe = regexp.MustCompile(`[^A-Za-z0-9.,!?' -]+`)
)

type sanitizerService struct {
	maxChars int
}

func NewSanitizerService(maxChars int) SanitizerService {
	if maxChars <= 0 {
		maxChars = defaultMaxSpeechChars
	}
	return &sanitizerService{maxChars: maxChars}
}

// NormalizeForSpeech implements SanitizerService.
//
// Rules, in order: headings become "Text:", bullet items become "• item",
// emphasis markers are stripped, long fenced code blocks collapse to a
// placeholder, links keep only their text, residual markup and whitespace are
// collapsed, and the result is cut at a sentence boundary within the limit.
func (s *sanitizerService) NormalizeForSpeech(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	var parts []string
	var codeLines []string
	inCode := false

	flushCode := func() {
		code := strings.TrimSpace(strings.Join(codeLines, " "))
		codeLines = nil
		if code == "" {
			return
		}
		if len(code) > codeBlockInlineLimit {
			parts = append(parts, codeBlockPlaceholder)
		} else {
			parts = append(parts, code)
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			if inCode {
				flushCode()
			}
			inCode = !inCode
			continue
		}

		if inCode {
			codeLines = append(codeLines, strings.TrimSpace(line))
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
			heading := strings.TrimSuffix(strings.TrimSpace(m[1]), ":")
			if heading != "" {
				parts = append(parts, heading+":")
			}
			continue
		}

		if m := bulletRe.FindStringSubmatch(line); m != nil {
			parts = append(parts, "• "+strings.TrimSpace(m[1]))
			continue
		}

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	// Unterminated fence at end of input
	if inCode {
		flushCode()
	}

	text := strings.Join(parts, " ")
	text = imageRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = markupRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return truncateAtSentence(text, s.maxChars)
}

// StripToPlain is the degraded path for malformed markdown: keep letters,
// digits and basic sentence punctuation only.
func (s *sanitizerService) StripToPlain(text string) string {
	text = nonPlainRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// truncateAtSentence cuts text at the last sentence end at or before maxChars,
// falling back to the last word boundary. No ellipsis is appended.
func truncateAtSentence(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	window := string(runes[:maxChars])
	cut := strings.LastIndexAny(window, ".!?")
	if cut >= 0 {
		return strings.TrimSpace(window[:cut+1])
	}

	if sp := strings.LastIndex(window, " "); sp > 0 {
		return strings.TrimSpace(window[:sp])
	}

	return strings.TrimSpace(window)
}
