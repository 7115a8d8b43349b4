package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/config"
	"github.com/vijay-prabhu/jobad-analyser/internal/dictionary"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"0d", 0, false},
		{"d", 0, true},
		{"", 0, true},
		{"5h", 0, true},
		{"xd", 0, true},
		{"-3d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseSince(t *testing.T) {
	since, err := parseSince("")
	if err != nil || since != nil {
		t.Errorf("expected no cutoff for empty flag, got %v, %v", since, err)
	}

	before := time.Now().Add(-7 * 24 * time.Hour)
	since, err = parseSince("7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := time.Now().Add(-7 * 24 * time.Hour)
	if since.Before(before) || since.After(after) {
		t.Errorf("cutoff %v outside [%v, %v]", since, before, after)
	}

	if _, err := parseSince("seven days"); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l, err := newLogger(&buf, "info", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Debug("hidden")
	l.Info("shown", "terms", 56)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"terms":56`) {
		t.Errorf("expected JSON record, got %s", out)
	}

	buf.Reset()
	l, err = newLogger(&buf, "DEBUG", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("expected text record, got %s", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDefaultConfigTemplate(t *testing.T) {
	cfg, err := config.Parse([]byte(defaultConfig))
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}

	def := config.Default()
	if !reflect.DeepEqual(cfg.Scoring, def.Scoring) {
		t.Errorf("template scoring differs from defaults:\n got %+v\nwant %+v", cfg.Scoring, def.Scoring)
	}
	if !reflect.DeepEqual(cfg.Analysis, def.Analysis) {
		t.Errorf("template analysis differs from defaults:\n got %+v\nwant %+v", cfg.Analysis, def.Analysis)
	}
	if !reflect.DeepEqual(cfg.Server, def.Server) {
		t.Errorf("template server differs from defaults: got %+v", cfg.Server)
	}
	if cfg.Fetch != def.Fetch || cfg.Batch != def.Batch || cfg.MCP != def.MCP {
		t.Error("template fetch, batch or mcp section differs from defaults")
	}
}

func TestFilterDictionary(t *testing.T) {
	dict, err := dictionary.Default()
	if err != nil {
		t.Fatalf("failed to load dictionary: %v", err)
	}

	all, err := filterDictionary(dict, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != dict.Len() {
		t.Errorf("expected %d terms, got %d", dict.Len(), len(all))
	}

	ageist, err := filterDictionary(dict, "ageist", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ageist) == 0 {
		t.Fatal("expected ageist terms in the built-in dictionary")
	}
	for _, rec := range ageist {
		if rec.Category != bias.CategoryAgeist {
			t.Errorf("term %q has category %s", rec.Term, rec.Category)
		}
	}

	high, err := filterDictionary(dict, "gender-coded", "high")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range high {
		if rec.Category != bias.CategoryGenderCoded || rec.Severity != bias.SeverityHigh {
			t.Errorf("term %q is %s/%s", rec.Term, rec.Category, rec.Severity)
		}
	}

	if _, err := filterDictionary(dict, "religious", ""); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := filterDictionary(dict, "", "severe"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# boards\nhttps://example.com/jobs/1\n\n  https://example.com/jobs/2  \n# done\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := readURLList(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://example.com/jobs/1", "https://example.com/jobs/2"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("expected %v, got %v", want, urls)
	}

	if _, err := readURLList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeInput(t *testing.T) {
	in := decodeInput("ad.txt", []byte("\xef\xbb\xbfWe need a rockstar\r\n"))
	if in.err != nil {
		t.Fatalf("unexpected error: %v", in.err)
	}
	if in.text != "We need a rockstar" {
		t.Errorf("expected BOM and trailing newline stripped, got %q", in.text)
	}

	latin := decodeInput("ad.txt", []byte("caf\xe9 culture"))
	if latin.text != "café culture" {
		t.Errorf("expected ISO-8859-1 fallback, got %q", latin.text)
	}
	if latin.name != "ad.txt" {
		t.Errorf("expected name to be kept, got %q", latin.name)
	}
}

func TestBuildAnalyser(t *testing.T) {
	cfg := config.Default()

	a, err := buildAnalyser(cfg, "regex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := a.Analyse("We need a rockstar. Apply today.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.FlaggedTerms) != 1 || result.FlaggedTerms[0].Term != "rockstar" {
		t.Errorf("expected rockstar flagged, got %+v", result.FlaggedTerms)
	}

	if _, err := buildAnalyser(cfg, "paragraph"); err == nil {
		t.Error("expected error for unknown segmenter")
	}

	cfg.Dictionary.Path = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := buildAnalyser(cfg, ""); err == nil {
		t.Error("expected error for missing dictionary")
	}
}
