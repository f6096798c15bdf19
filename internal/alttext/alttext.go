// Package alttext generates accessible image descriptions for uploads whose
// alt text was left blank.
package alttext

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Prompt is the shared instruction sent to every describer backend.
const Prompt = `Write alt text for this photo from an interior design portfolio.
Describe the room, the main materials and the mood in one sentence of at most
20 words. Respond with the sentence only, no quotes or preamble.`

// MaxLength bounds the stored description in runes.
const MaxLength = 160

var chattyPrefix = regexp.MustCompile(`(?i)^(alt text:|here is[^:]{0,40}:|sure,[^:]{0,40}:)\s*`)

type Describer interface {
	Describe(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Clean normalises a model reply into a single line of alt text, truncated at
// a word boundary to MaxLength.
func Clean(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	s = chattyPrefix.ReplaceAllString(s, "")
	s = strings.Trim(s, "\"'“”")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) <= MaxLength {
		return s
	}
	runes := []rune(s)[:MaxLength]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// NormaliseMIME maps upload MIME types to the set vision APIs accept.
// Unknown types are coerced to jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
