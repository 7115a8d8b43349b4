package dictionary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, d.Len(), 50)

	stats := d.Stats()
	for _, c := range bias.Categories {
		assert.Positive(t, stats.ByCategory[c], "category %s has no terms", c)
	}

	rec, ok := d.Lookup("competitive")
	require.True(t, ok)
	assert.Contains(t, rec.ContextExceptions, "competitive salary")
	assert.Equal(t, []string{"motivated", "driven"}, rec.Suggestions)

	_, ok = d.Lookup("bro culture")
	assert.True(t, ok)
}

func TestParseCSV(t *testing.T) {
	input := `term,category,severity,suggestion,explanation,context_exceptions
rockstar,gender-coded,HIGH,expert | specialist,Masculine-coded,
"competitive",gender-coded,medium,motivated,"Trait word, masculine-coded",competitive salary|competitive pay
`
	d, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	rec, ok := d.Lookup("rockstar")
	require.True(t, ok)
	assert.Equal(t, bias.SeverityHigh, rec.Severity)
	assert.Equal(t, []string{"expert", "specialist"}, rec.Suggestions)
	assert.Empty(t, rec.ContextExceptions)

	rec, ok = d.Lookup("competitive")
	require.True(t, ok)
	assert.Equal(t, "Trait word, masculine-coded", rec.Explanation)
	assert.Equal(t, []string{"competitive salary", "competitive pay"}, rec.ContextExceptions)
}

func TestParseCSV_OptionalColumns(t *testing.T) {
	d, err := ParseCSV(strings.NewReader("term,category,severity,suggestion\nguru,gender-coded,low,expert\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty file", "", "empty dictionary file"},
		{"missing column", "term,category,severity\nx,ageist,low\n", "missing column suggestion"},
		{"bad category", "term,category,severity,suggestion\nguru,religious,low,expert\n", "line 2"},
		{"bad severity", "term,category,severity,suggestion\nguru,ageist,extreme,expert\n", "unknown severity"},
		{"empty suggestion", "term,category,severity,suggestion\nguru,ageist,low,\n", "suggestions must not be empty"},
		{"duplicate", "term,category,severity,suggestion\nguru,ageist,low,x\nGuru,ageist,low,y\n", "duplicate term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)

			var dictErr *bias.DictionaryError
			assert.True(t, errors.As(err, &dictErr), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseTOML(t *testing.T) {
	input := `
[[terms]]
term = "digital native"
category = "ageist"
severity = "high"
suggestions = ["digitally fluent"]
explanation = "Implies a younger generation"

[[terms]]
term = "competitive"
category = "gender-coded"
severity = "medium"
suggestions = ["motivated"]
context_exceptions = ["competitive salary"]
`
	d, err := ParseTOML(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	rec, ok := d.Lookup("digital native")
	require.True(t, ok)
	assert.Equal(t, bias.CategoryAgeist, rec.Category)
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, d.Terms()))

	back, err := ParseTOML(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.Len(), back.Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "terms.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("term,category,severity,suggestion\nninja,gender-coded,high,expert\n"), 0644))
	d, err := Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	tomlPath := filepath.Join(dir, "terms.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[[terms]]\nterm = \"ninja\"\ncategory = \"gender-coded\"\nseverity = \"high\"\nsuggestions = [\"expert\"]\n"), 0644))
	d, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	_, err = Load(filepath.Join(dir, "terms.yaml"))
	assert.Error(t, err)

	d, err = Load("")
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 1)
}
