// Package segment provides sentence segmenters for the bias analyser.
package segment

import (
	"fmt"
	"regexp"

	"github.com/clipperhouse/uax29/v2/sentences"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// Segmenter kinds accepted by New
const (
	KindUnicode = "unicode"
	KindRegex   = "regex"
	KindWindow  = "window"
)

// New returns the segmenter for kind. "window" returns nil, which makes the
// analyser fall back to a fixed window around each match.
func New(kind string) (bias.SentenceSegmenter, error) {
	switch kind {
	case KindUnicode, "":
		return Unicode{}, nil
	case KindRegex:
		return Regex{}, nil
	case KindWindow:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown segmenter: %s (expected unicode, regex or window)", kind)
	}
}

// Unicode splits text on UAX #29 sentence boundaries
type Unicode struct{}

// Segment implements bias.SentenceSegmenter
func (Unicode) Segment(text string) []bias.Span {
	var spans []bias.Span
	pos := 0
	iter := sentences.FromString(text)
	for iter.Next() {
		n := len(iter.Value())
		if n == 0 {
			continue
		}
		spans = append(spans, bias.Span{Start: pos, End: pos + n})
		pos += n
	}
	return spans
}

// sentenceEnd matches terminal punctuation followed by whitespace, or a
// blank line
var sentenceEnd = regexp.MustCompile(`[.!?]+["')\]]*\s+|\n[ \t]*\n\s*`)

// Regex splits after '.', '!' or '?' followed by whitespace and on blank
// lines. Trailing whitespace belongs to the preceding sentence.
type Regex struct{}

// Segment implements bias.SentenceSegmenter
func (Regex) Segment(text string) []bias.Span {
	if text == "" {
		return nil
	}
	var spans []bias.Span
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if loc[1] <= start {
			continue
		}
		spans = append(spans, bias.Span{Start: start, End: loc[1]})
		start = loc[1]
	}
	if start < len(text) {
		spans = append(spans, bias.Span{Start: start, End: len(text)})
	}
	return spans
}
