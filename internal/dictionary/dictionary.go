// Package dictionary loads bias term dictionaries from CSV or TOML files.
package dictionary

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

//go:embed data/bias_terms.csv
var defaultTerms []byte

// listSeparator splits multi-valued CSV cells
const listSeparator = "|"

var csvHeader = []string{"term", "category", "severity", "suggestion", "explanation", "context_exceptions"}

// tomlFile is the on-disk TOML layout
type tomlFile struct {
	Terms []bias.TermRecord `toml:"terms"`
}

// Default returns the embedded dictionary
func Default() (*bias.TermDictionary, error) {
	return ParseCSV(bytes.NewReader(defaultTerms))
}

// DefaultCSV returns the raw embedded dictionary file
func DefaultCSV() []byte {
	return append([]byte(nil), defaultTerms...)
}

// Load reads a dictionary file, choosing the format by extension.
// An empty path loads the embedded default.
func Load(path string) (*bias.TermDictionary, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".toml":
		return ParseTOML(f)
	default:
		return nil, fmt.Errorf("unsupported dictionary format: %s (expected .csv or .toml)", filepath.Ext(path))
	}
}

// ParseCSV reads a dictionary in the term,category,severity,suggestion,
// explanation,context_exceptions layout. List cells are '|'-separated.
func ParseCSV(r io.Reader) (*bias.TermDictionary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &bias.DictionaryError{Reason: "empty dictionary file"}
		}
		return nil, fmt.Errorf("failed to read dictionary header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		records []bias.TermRecord
		errs    []error
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, cols)
		if err != nil {
			errs = append(errs, &bias.DictionaryError{Term: cell(row, cols["term"]), Reason: fmt.Sprintf("line %d: %v", line, err)})
			continue
		}
		records = append(records, rec)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return bias.NewDictionary(records)
}

// ParseTOML reads a dictionary made of [[terms]] tables
func ParseTOML(r io.Reader) (*bias.TermDictionary, error) {
	var file tomlFile
	if err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	return bias.NewDictionary(file.Terms)
}

// WriteTOML writes records in the layout ParseTOML reads
func WriteTOML(w io.Writer, records []bias.TermRecord) error {
	return toml.NewEncoder(w).Encode(tomlFile{Terms: records})
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range csvHeader[:4] {
		if _, ok := cols[required]; !ok {
			return nil, &bias.DictionaryError{Reason: "missing column " + required}
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (bias.TermRecord, error) {
	cat, err := bias.ParseCategory(strings.ToLower(cell(row, cols["category"])))
	if err != nil {
		return bias.TermRecord{}, err
	}
	sev, err := bias.ParseSeverity(strings.ToLower(cell(row, cols["severity"])))
	if err != nil {
		return bias.TermRecord{}, err
	}

	rec := bias.TermRecord{
		Term:        cell(row, cols["term"]),
		Category:    cat,
		Severity:    sev,
		Suggestions: splitList(cell(row, cols["suggestion"])),
	}
	if i, ok := cols["explanation"]; ok {
		rec.Explanation = cell(row, i)
	}
	if i, ok := cols["context_exceptions"]; ok {
		rec.ContextExceptions = splitList(cell(row, i))
	}
	return rec, nil
}

// cell returns row[i] trimmed, or "" when the row is short
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
