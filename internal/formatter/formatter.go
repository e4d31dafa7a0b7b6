// package formatter exports access records to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat accepts csv, md (or markdown), text (or txt) and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Ext is the file extension used by [WriteExport] when no path is given.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// ExportToCSV converts records to CSV with columns: ID, Time, Method, URL, Status, Bytes, DurationMicros, Remote, RequestID
func ExportToCSV(records []models.AccessRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Time", "Method", "URL", "Status", "Bytes", "DurationMicros", "Remote", "RequestID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.CreatedAt.UTC().Format(time.RFC3339Nano),
			rec.Method,
			rec.URL,
			strconv.Itoa(rec.Status),
			strconv.FormatInt(rec.Bytes, 10),
			strconv.FormatInt(rec.Duration.Microseconds(), 10),
			rec.RemoteAddr,
			rec.RequestID,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a report: totals, a per-status table and the request list.
func ExportToMarkdown(records []models.AccessRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Access log"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	var total int64
	for _, rec := range records {
		total += rec.Bytes
	}
	buf.WriteString(fmt.Sprintf("**Requests**: %d\n", len(records)))
	buf.WriteString(fmt.Sprintf("**Bytes**: %d\n\n", total))

	counts := StatusCounts(records)
	if len(counts) > 0 {
		buf.WriteString("## Status\n\n| Status | Count |\n|---|---|\n")
		for _, code := range slices.Sorted(maps.Keys(counts)) {
			buf.WriteString(fmt.Sprintf("| %d | %d |\n", code, counts[code]))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Requests\n\n")
	for i, rec := range records {
		buf.WriteString(fmt.Sprintf("%d. `%s` %s (%dB, %s)\n", i+1, rec.Line(), rec.CreatedAt.UTC().Format(time.DateTime), rec.Bytes, rec.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to one access line per request.
func ExportToText(records []models.AccessRecord) ([]byte, error) {
	var buf bytes.Buffer

	for _, rec := range records {
		buf.WriteString(fmt.Sprintf("%s %s\n", rec.CreatedAt.UTC().Format(time.RFC3339), rec.Line()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts records to an indented JSON array.
func ExportToJSON(records []models.AccessRecord) ([]byte, error) {
	if records == nil {
		records = []models.AccessRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export encodes records in format f.
func Export(records []models.AccessRecord, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(records, "")
	case FormatText:
		return ExportToText(records)
	case FormatJSON:
		return ExportToJSON(records)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, f)
}

// WriteExport writes records to path in format f and returns the path written.
//
// Defaults to access_log_{timestamp}{ext} in the working directory.
func WriteExport(records []models.AccessRecord, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("access_log_%s%s", time.Now().UTC().Format("20060102T150405"), f.Ext())
	}

	data, err := Export(records, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// StatusCounts tallies records by status code.
func StatusCounts(records []models.AccessRecord) map[int]int {
	counts := map[int]int{}
	for _, rec := range records {
		counts[rec.Status]++
	}
	return counts
}
