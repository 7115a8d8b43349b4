package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// CSVHeader returns the column names written by CSV
func CSVHeader() []string {
	header := []string{"filename", "overall_score", "grade", "word_count", "total_issues"}
	for _, c := range bias.Categories {
		header = append(header, string(c)+"_score", string(c)+"_issues")
	}
	for _, s := range bias.Severities {
		header = append(header, string(s)+"_count")
	}
	return append(header, "error")
}

// CSV writes one row per report
func CSV(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return err
	}
	for _, r := range reports {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r Report) []string {
	width := len(CSVHeader())
	if r.Result == nil {
		row := make([]string, width)
		row[0] = r.Name
		row[width-1] = r.Error
		return row
	}
	res := r.Result

	row := []string{
		r.Name,
		strconv.FormatFloat(res.OverallScore, 'f', 1, 64),
		string(res.Grade),
		strconv.Itoa(res.WordCount),
		strconv.Itoa(len(res.FlaggedTerms)),
	}
	for _, c := range bias.Categories {
		cs, ok := res.CategoryScore(c)
		if !ok {
			row = append(row, "", "")
			continue
		}
		row = append(row, strconv.FormatFloat(cs.Score, 'f', 1, 64), strconv.Itoa(cs.IssueCount))
	}
	for _, s := range bias.Severities {
		row = append(row, strconv.Itoa(res.CountBySeverity(s)))
	}
	return append(row, "")
}
