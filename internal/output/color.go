package output

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// palette wraps text in ANSI codes when enabled
type palette bool

func (p palette) wrap(color, text string) string {
	if !p {
		return text
	}
	return color + text + ColorReset
}

// scoreColor mirrors the grade bands
func scoreColor(score float64, excellent, good, fair float64) string {
	switch {
	case score >= excellent:
		return ColorGreen
	case score >= good:
		return ColorCyan
	case score >= fair:
		return ColorYellow
	default:
		return ColorRed
	}
}

func severityColor(s string) string {
	switch s {
	case "critical", "high":
		return ColorRed
	case "medium":
		return ColorYellow
	default:
		return ColorCyan
	}
}
