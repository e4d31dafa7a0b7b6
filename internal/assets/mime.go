package assets

import (
	"maps"
	"slices"
	"strings"
)

// FallbackType is served for extensions the table does not know.
const FallbackType = "application/octet-stream"

var defaultTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// MimeTable is an immutable extension to content type mapping.
type MimeTable struct {
	types map[string]string
}

// MimeEntry is one row of a [MimeTable].
type MimeEntry struct {
	Ext  string `json:"ext"`
	Type string `json:"type"`
}

// NewMimeTable builds the default table with overrides applied on top.
//
// Override keys are lowercased; empty values are ignored.
func NewMimeTable(overrides map[string]string) *MimeTable {
	types := maps.Clone(defaultTypes)
	for ext, ct := range overrides {
		if ct == "" {
			continue
		}
		types[strings.ToLower(ext)] = ct
	}
	return &MimeTable{types: types}
}

// DefaultMimeTable returns the built-in table.
func DefaultMimeTable() *MimeTable {
	return NewMimeTable(nil)
}

// Lookup returns the content type for ext, or [FallbackType]. Case-insensitive.
func (m *MimeTable) Lookup(ext string) string {
	if ct, ok := m.types[strings.ToLower(ext)]; ok {
		return ct
	}
	return FallbackType
}

// Entries lists the table sorted by extension.
func (m *MimeTable) Entries() []MimeEntry {
	exts := slices.Sorted(maps.Keys(m.types))
	entries := make([]MimeEntry, 0, len(exts))
	for _, ext := range exts {
		entries = append(entries, MimeEntry{Ext: ext, Type: m.types[ext]})
	}
	return entries
}
