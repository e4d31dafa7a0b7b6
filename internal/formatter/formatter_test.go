package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/shared"
)

func sampleRecords() []models.AccessRecord {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return []models.AccessRecord{
		{ID: "a", Method: "GET", URL: "/login", Status: 200, Bytes: 34, Duration: 1500 * time.Microsecond, RemoteAddr: "127.0.0.1:5000", RequestID: "r1", CreatedAt: at},
		{ID: "b", Method: "GET", URL: "/missing-page", Status: 404, Bytes: 19, Duration: 300 * time.Microsecond, CreatedAt: at.Add(time.Second)},
		{ID: "c", Method: "GET", URL: "/../secret.txt", Status: 403, Bytes: 14, CreatedAt: at.Add(2 * time.Second)},
		{ID: "d", Method: "POST", URL: "/login?next=/", Status: 200, Bytes: 34, CreatedAt: at.Add(3 * time.Second)},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(rows) != 5 {
			t.Fatalf("expected header + 4 rows, got %d", len(rows))
		}
		if rows[0][0] != "ID" || rows[0][4] != "Status" {
			t.Errorf("unexpected headers %v", rows[0])
		}

		first := rows[1]
		if first[2] != "GET" || first[3] != "/login" || first[4] != "200" || first[5] != "34" || first[6] != "1500" {
			t.Errorf("unexpected first row %v", first)
		}
		if first[1] != "2026-03-04T05:06:07Z" {
			t.Errorf("expected RFC3339 UTC time, got %s", first[1])
		}
	})

	t.Run("ExportToCSV empty", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Count(string(data), "\n") != 1 {
			t.Errorf("expected only the header, got %q", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRecords(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		md := string(data)
		for _, want := range []string{
			"# Access log",
			"**Requests**: 4",
			"**Bytes**: 101",
			"| 200 | 2 |",
			"| 403 | 1 |",
			"| 404 | 1 |",
			"1. `GET /login -> 200`",
			"3. `GET /../secret.txt -> 403`",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("expected %q in markdown:\n%s", want, md)
			}
		}

		if strings.Index(md, "| 200 |") > strings.Index(md, "| 404 |") {
			t.Error("expected status rows sorted by code")
		}
	})

	t.Run("ExportToMarkdown with title", func(t *testing.T) {
		data, _ := ExportToMarkdown(nil, "Staging")
		if !strings.HasPrefix(string(data), "# Staging\n") {
			t.Errorf("expected custom title, got %q", data)
		}
		if strings.Contains(string(data), "## Status") {
			t.Error("expected no status table without records")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %d", len(lines))
		}
		if lines[3] != "2026-03-04T05:06:10Z POST /login?next=/ -> 200" {
			t.Errorf("unexpected line %q", lines[3])
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleRecords())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded []models.AccessRecord
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(decoded) != 4 || decoded[1].Status != 404 {
			t.Errorf("unexpected records %+v", decoded)
		}

		empty, _ := ExportToJSON(nil)
		if strings.TrimSpace(string(empty)) != "[]" {
			t.Errorf("expected [] for no records, got %q", empty)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ext  string
	}{
		{"csv", FormatCSV, ".csv"},
		{"MD", FormatMarkdown, ".md"},
		{"markdown", FormatMarkdown, ".md"},
		{"txt", FormatText, ".txt"},
		{"json", FormatJSON, ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want || got.Ext() != tt.ext {
				t.Errorf("ParseFormat(%q) = %s (%s), expected %s (%s)", tt.in, got, got.Ext(), tt.want, tt.ext)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")

			got, err := WriteExport(sampleRecords(), FormatCSV, path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != path {
				t.Errorf("expected %s, got %s", path, got)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read export: %v", err)
			}
			if !strings.HasPrefix(string(content), "ID,Time,Method") {
				t.Errorf("unexpected content %q", content)
			}
		})

		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			got, err := WriteExport(sampleRecords(), FormatMarkdown, "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.HasPrefix(got, "access_log_") || !strings.HasSuffix(got, ".md") {
				t.Errorf("unexpected default path %s", got)
			}
			if _, err := os.Stat(got); err != nil {
				t.Errorf("expected file to exist: %v", err)
			}
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
			if _, err := WriteExport(sampleRecords(), FormatText, path); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("UnknownFormat", func(t *testing.T) {
			if _, err := WriteExport(nil, Format("xml"), "x"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("StatusCounts", func(t *testing.T) {
		counts := StatusCounts(sampleRecords())
		if counts[200] != 2 || counts[403] != 1 || counts[404] != 1 || len(counts) != 3 {
			t.Errorf("unexpected counts %v", counts)
		}
	})
}
