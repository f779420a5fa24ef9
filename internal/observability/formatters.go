// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-embed/internal/embedding"
	"github.com/jonathan/resume-embed/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintValidationResult outputs a human-readable validation summary.
func (p *Printer) PrintValidationResult(result *types.ValidationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "FAILED"
	if result.OK {
		status = "OK"
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("Version:  %s\n", result.Version))
	if result.SchemaVersion != "" && result.SchemaVersion != result.Version {
		sb.WriteString(fmt.Sprintf("Schema:   %s (%s)\n", result.SchemaVersion, result.SchemaSource))
	}
	sb.WriteString("\n")

	if len(result.Issues) > 0 {
		sb.WriteString("Issues:\n")
		count := min(len(result.Issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			is := result.Issues[i]
			sb.WriteString(fmt.Sprintf("  [%s] %s", is.Severity, is.Message))
			if is.Path != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", is.Path))
			}
			sb.WriteString("\n")
		}
		if len(result.Issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Issues)-maxItemsToShow))
		}
	} else {
		sb.WriteString("No issues found\n")
	}

	p.printBox("Validation Result", sb.String())
}

// PrintEmbedResult outputs a summary of a completed embed operation.
func (p *Printer) PrintEmbedResult(result *embedding.EmbedResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Version:     %s\n", result.Version))
	sb.WriteString(fmt.Sprintf("Checksum:    %.16s...\n", result.Checksum))
	sb.WriteString(fmt.Sprintf("Compressed:  %t\n", result.Compressed))
	sb.WriteString(fmt.Sprintf("Size:        %d -> %d bytes\n", result.OriginalSize, result.CompressedSize))
	if result.ResumeID != "" {
		sb.WriteString(fmt.Sprintf("Resume ID:   %s\n", result.ResumeID))
	}

	p.printBox("Embed Result", sb.String())
}

// PrintExtractResult outputs a summary of a completed extract operation.
func (p *Printer) PrintExtractResult(result *embedding.ExtractResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Version:    %s\n", result.Version))
	if result.Data != nil {
		if name := result.Data.Name(); name != "" {
			sb.WriteString(fmt.Sprintf("Candidate:  %s\n", name))
		}
	}
	if result.Migrated {
		sb.WriteString(fmt.Sprintf("Migrated:   yes (%d steps)\n", len(result.MigrationSteps)))
		for _, step := range result.MigrationSteps {
			sb.WriteString(fmt.Sprintf("  %s -> %s\n", step.From, step.To))
		}
	}
	for _, is := range result.Issues {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", is.Severity, is.Message))
	}

	p.printBox("Extract Result", sb.String())
}
