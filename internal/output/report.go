package output

import (
	"fmt"
	"io"
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// Version is stamped into JSON report metadata
var Version = "dev"

// Formats lists the accepted report formats
var Formats = []string{"text", "json", "csv", "markdown"}

// Report is the analysis of one named job ad. Result is nil when the ad
// could not be read or analysed, in which case Error is set.
type Report struct {
	Name   string               `json:"name"`
	Title  string               `json:"title,omitempty"`
	Result *bias.AnalysisResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Options controls report rendering
type Options struct {
	Color bool
	// Thresholds colour scores the same way the grades are assigned
	Thresholds bias.GradeThresholds
	Now        func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) thresholds() bias.GradeThresholds {
	if o.Thresholds == (bias.GradeThresholds{}) {
		return bias.DefaultConfig().GradeThresholds
	}
	return o.Thresholds
}

// Write renders reports in the given format
func Write(w io.Writer, format string, reports []Report, opts Options) error {
	switch format {
	case "text", "":
		for i := range reports {
			if err := Text(w, &reports[i], opts); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return JSONReports(w, reports, opts)
	case "markdown", "md":
		for i := range reports {
			if err := Markdown(w, &reports[i], opts); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		return CSV(w, reports)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

type reportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
}

type jsonReport struct {
	Report
	Metadata reportMetadata `json:"metadata"`
}

// JSONReports writes a single report as an object and several as an array
func JSONReports(w io.Writer, reports []Report, opts Options) error {
	meta := reportMetadata{GeneratedAt: opts.now().UTC(), Version: Version}

	out := make([]jsonReport, len(reports))
	for i, r := range reports {
		out[i] = jsonReport{Report: r, Metadata: meta}
	}
	if len(out) == 1 {
		return JSONTo(w, out[0])
	}
	return JSONTo(w, out)
}
