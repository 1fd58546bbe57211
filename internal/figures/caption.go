package figures

import (
	"regexp"
	"strings"

	"figextract/internal/pdfdoc"
)

// Caption candidate patterns, compiled once per process.
var captionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)figure\s+\d+`),
	regexp.MustCompile(`(?i)fig\.?\s+\d+`),
	regexp.MustCompile(`\([a-z]\)`),
	regexp.MustCompile(`\b[a-z]\)`),
}

// pureLabelRe matches text that is nothing but one or more parenthesized
// sub-figure markers, e.g. "(a)" or "(a) (b)".
var pureLabelRe = regexp.MustCompile(`(?i)^(\([a-z0-9]+\)\s*)+$`)

// detectCaptions scans text blocks for caption candidates and classifies
// each as a full caption or a sub-figure label.
func detectCaptions(blocks []pdfdoc.TextBlock) []Caption {
	var out []Caption
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" || !matchesAnyCaptionPattern(text) {
			continue
		}
		out = append(out, Caption{
			Text: text,
			Rect: b.Rect,
			Kind: classifyCaption(text),
		})
	}
	return out
}

func matchesAnyCaptionPattern(text string) bool {
	for _, re := range captionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// classifyCaption splits captions from labels: a candidate is a label if
// the stripped text is short (<=5 chars) or is purely one or more
// parenthesized markers; otherwise it is a full caption.
func classifyCaption(text string) CaptionKind {
	if len(text) <= 5 || pureLabelRe.MatchString(text) {
		return KindLabel
	}
	return KindCaption
}
