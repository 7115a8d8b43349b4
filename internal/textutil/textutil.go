// Package textutil prepares raw job-ad text for analysis.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.English)

// Normalize applies NFKC and drops control characters other than newlines
// and tabs. CR and NEL become newlines. Typographic ligatures and full-width forms become plain text so
// dictionary terms match them.
func Normalize(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' || r == '\u0085' {
			return '\n'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}

// Decode converts file contents to a string. Invalid UTF-8 is read as
// ISO-8859-1, which maps every byte to a rune.
func Decode(data []byte) (string, error) {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WordCount counts whitespace-separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Title renders a category name like "gender-coded" as "Gender-Coded"
func Title(s string) string {
	return titleCaser.String(s)
}

// Label renders a category name like "culture-fit" as "Culture Fit"
func Label(s string) string {
	return Title(strings.ReplaceAll(s, "-", " "))
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
