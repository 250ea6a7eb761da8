package detect

// OutputFormat represents the output format for detection reports.
type OutputFormat string

const (
	// FormatText is the human-readable format (default).
	FormatText OutputFormat = "text"
	// FormatJSON is the machine-readable JSON format.
	FormatJSON OutputFormat = "json"
	// FormatTable is the tabular format.
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat converts a string to an OutputFormat.
// Unknown values fall back to text.
func ParseOutputFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}
