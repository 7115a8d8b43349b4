package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ligature", "ﬁrst hire", "first hire"},
		{"full width", "ｒｏｃｋｓｔａｒ", "rockstar"},
		{"control chars dropped", "rock\x00star\x07", "rockstar"},
		{"newlines kept", "line one\r\nline two", "line one\n\nline two"},
		{"next line becomes newline", "bro\u0085culture", "bro\nculture"},
		{"trimmed", "  hello \n", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode([]byte("café"))
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	// 0xE9 is é in ISO-8859-1 and invalid as UTF-8
	got, err = Decode([]byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	got, err = Decode([]byte("\xEF\xBB\xBFhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount(" \n\t "))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
	assert.Equal(t, 2, WordCount("fast-paced environment"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Culture Fit", Label("culture-fit"))
	assert.Equal(t, "Socioeconomic", Label("socioeconomic"))
}
