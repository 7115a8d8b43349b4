package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

func sentencesOf(text string, spans []bias.Span) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = text[s.Start:s.End]
	}
	return out
}

// assertCovers checks spans are ordered, contiguous and cover every byte
func assertCovers(t *testing.T, text string, spans []bias.Span) {
	t.Helper()
	pos := 0
	for _, s := range spans {
		assert.Equal(t, pos, s.Start)
		assert.Less(t, s.Start, s.End)
		pos = s.End
	}
	assert.Equal(t, len(text), pos)
}

func TestRegex_Segment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single sentence", "We hire engineers", []string{"We hire engineers"}},
		{"terminal punctuation", "Join us. Apply now! Questions? Email.", []string{"Join us. ", "Apply now! ", "Questions? ", "Email."}},
		{"decimal is not a boundary", "Version 2.5 ships today. Yes.", []string{"Version 2.5 ships today. ", "Yes."}},
		{"blank line", "Responsibilities\n\nBuild things", []string{"Responsibilities\n\n", "Build things"}},
		{"closing quote stays with sentence", `He said "go." Then left.`, []string{`He said "go." `, "Then left."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Regex{}.Segment(tt.text)
			assert.Equal(t, tt.want, sentencesOf(tt.text, spans))
			assertCovers(t, tt.text, spans)
		})
	}
}

func TestRegex_Empty(t *testing.T) {
	assert.Empty(t, Regex{}.Segment(""))
}

func TestUnicode_Segment(t *testing.T) {
	text := "We need a rockstar. You will join a great team! Apply today."
	spans := Unicode{}.Segment(text)

	require.Len(t, spans, 3)
	assertCovers(t, text, spans)
	assert.Equal(t, "We need a rockstar. ", text[spans[0].Start:spans[0].End])
}

func TestUnicode_MultiByte(t *testing.T) {
	text := "Café culture matters. Über team."
	spans := Unicode{}.Segment(text)

	require.Len(t, spans, 2)
	assertCovers(t, text, spans)
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		want    bias.SentenceSegmenter
		wantErr bool
	}{
		{"unicode", Unicode{}, false},
		{"", Unicode{}, false},
		{"regex", Regex{}, false},
		{"window", nil, false},
		{"nltk", nil, true},
	}
	for _, tt := range tests {
		got, err := New(tt.kind)
		if tt.wantErr {
			assert.Error(t, err, tt.kind)
			continue
		}
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.want, got, tt.kind)
	}
}
