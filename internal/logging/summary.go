// Package logging renders the post-scan report: one aligned table of
// the extracted timecode segments plus decode totals.
package logging

import (
	"fmt"
	"strings"

	"github.com/linuxmatters/tcgrab/internal/scan"
)

// SegmentRow is a single row in the segment table. Values are
// pre-formatted strings so mixed formatting stays the caller's choice.
type SegmentRow struct {
	Values []string // One value per column
}

// SegmentTable formats aligned columns for the scan report.
// Handles variable column widths and missing values.
type SegmentTable struct {
	Headers []string
	Rows    []SegmentRow
}

// MissingValue is the placeholder for unavailable cells.
const MissingValue = "-"

// String renders the table with aligned columns. The first column is
// left-aligned, numeric columns are right-aligned within their width.
func (t *SegmentTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	var sb strings.Builder

	for i, header := range t.Headers {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%-*s  ", widths[i], header))
		} else {
			sb.WriteString(fmt.Sprintf("%*s  ", widths[i], header))
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%-*s  ", widths[i], val))
			} else {
				sb.WriteString(fmt.Sprintf("%*s  ", widths[i], val))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// AddRow appends one pre-formatted row.
func (t *SegmentTable) AddRow(values ...string) {
	t.Rows = append(t.Rows, SegmentRow{Values: values})
}

// NewSegmentTable creates a table with the standard report columns.
func NewSegmentTable() *SegmentTable {
	return &SegmentTable{
		Headers: []string{"Timecode", "Start", "End", "Frames", "Duration"},
	}
}

// Summary renders a human-readable report for a finished scan.
func Summary(result scan.Result, frameRate int) string {
	var sb strings.Builder

	if len(result.Segments) == 0 {
		sb.WriteString("No timecode found.\n")
	} else {
		table := NewSegmentTable()
		total := 0
		for _, seg := range result.Segments {
			table.AddRow(
				seg.TC.String(),
				fmt.Sprintf("%d", seg.StartFrame),
				fmt.Sprintf("%d", seg.EndFrame),
				fmt.Sprintf("%d", seg.Frames()),
				formatDuration(seg.Frames(), frameRate),
			)
			total += seg.Frames()
		}
		sb.WriteString(table.String())
		sb.WriteString(fmt.Sprintf("\n%d segment(s), %d frame(s), %s\n",
			len(result.Segments), total, formatDuration(total, frameRate)))
	}

	if result.Stats.Frames > 0 || result.Stats.Malformed > 0 {
		sb.WriteString(fmt.Sprintf("Decoded %d LTC frame(s), rejected %d malformed\n",
			result.Stats.Frames, result.Stats.Malformed))
	}

	return sb.String()
}

// formatDuration renders a frame count as seconds at the clip rate.
func formatDuration(frames, frameRate int) string {
	if frameRate <= 0 {
		return MissingValue
	}
	return fmt.Sprintf("%.2fs", float64(frames)/float64(frameRate))
}
