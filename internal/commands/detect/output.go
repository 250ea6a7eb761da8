package detect

import (
	"fmt"
	"strings"

	"github.com/indaco/devflake/internal/printer"
	"github.com/indaco/devflake/internal/report"
)

// Formatter handles display of detection reports.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a new Formatter with the specified output format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// FormatReport formats the detection report for display.
func (f *Formatter) FormatReport(rep *report.Report) string {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(rep)
	case FormatTable:
		return f.formatTable(rep)
	default:
		return f.formatText(rep)
	}
}

// PrintReport writes the formatted report to stdout.
func (f *Formatter) PrintReport(rep *report.Report) {
	fmt.Print(f.FormatReport(rep))
}

// formatText formats the report as human-readable text.
func (f *Formatter) formatText(rep *report.Report) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(printer.Info("Detection Results"))
	sb.WriteString("\n")
	sb.WriteString(printer.Faint(strings.Repeat("-", 70)))
	sb.WriteString("\n")

	if len(rep.Entries) == 0 {
		sb.WriteString("No supported languages detected.\n")
	}

	for _, e := range rep.Entries {
		status := printer.Success("✓")
		if e.Conflict {
			status = printer.Warning("⚠")
		}
		fmt.Fprintf(&sb, "  %s %-12s %s %s\n",
			status, e.Language, printer.Bold(e.Version), printer.Faint(describeOrigin(e)))
		if len(e.Managers) > 0 {
			fmt.Fprintf(&sb, "      %s\n", printer.Faint("managers: "+strings.Join(e.Managers, ", ")))
		}
	}

	if len(rep.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(printer.Warning("Warnings:"))
		sb.WriteString("\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&sb, "  %s %s\n", printer.Warning("⚠"), w)
		}
	}

	sb.WriteString(printer.Faint(strings.Repeat("-", 70)))
	sb.WriteString("\n")
	sb.WriteString(f.formatSummary(rep))
	sb.WriteString("\n")

	return sb.String()
}

// formatTable formats the report as a table.
func (f *Formatter) formatTable(rep *report.Report) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(printer.Info("Detection Results"))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "%-12s %-15s %-10s %-25s %s\n", "LANGUAGE", "VERSION", "ORIGIN", "SOURCE", "MANAGERS")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, e := range rep.Entries {
		source := e.Source
		if source == "" {
			source = strings.Join(e.Sources, ", ")
		}
		fmt.Fprintf(&sb, "%-12s %-15s %-10s %-25s %s\n",
			e.Language, e.Version, e.Origin, source, strings.Join(e.Managers, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString(f.formatSummary(rep))
	sb.WriteString("\n")

	return sb.String()
}

// formatJSON formats the report as JSON.
func (f *Formatter) formatJSON(rep *report.Report) string {
	data, err := rep.JSON()
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}\n", err.Error())
	}
	return string(data)
}

// formatSummary returns a one-line summary of the report.
func (f *Formatter) formatSummary(rep *report.Report) string {
	n := len(rep.Entries)
	summary := fmt.Sprintf("%d language(s) detected", n)
	if rep.HasConflict() {
		summary += printer.Warning(" (with conflicts)")
	}
	return summary
}

// describeOrigin renders the provenance suffix for a text entry.
func describeOrigin(e report.Entry) string {
	if e.Source != "" {
		return fmt.Sprintf("(%s: %s)", e.Origin, e.Source)
	}
	if len(e.Sources) > 0 {
		return fmt.Sprintf("(sources: %s)", strings.Join(e.Sources, ", "))
	}
	return ""
}
