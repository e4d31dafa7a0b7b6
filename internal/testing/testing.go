// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// SiteFiles is a small front end: pages, a stylesheet, a script and an image.
var SiteFiles = map[string]string{
	"index.html":  "<!DOCTYPE html><title>home</title>",
	"login.html":  "<!DOCTYPE html><title>login</title>",
	"home.js":     "console.log('home');",
	"style.css":   "body { margin: 0; }",
	"logo.png":    "\x89PNG\r\n\x1a\n",
	"data.xyz":    "opaque",
	"UPPER.JPG":   "jpeg bytes",
	"img/cat.gif": "GIF89a",
}

// NewAssetRoot writes files (slash-separated relative names) under a fresh temp dir and returns it.
func NewAssetRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	return root
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// SkipIfRoot skips tests that depend on permission bits being enforced.
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed when running as root")
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// StubReader is an assets.Reader returning fixed data or an error.
type StubReader struct {
	Data  []byte
	Err   error
	Calls int
	Paths []string
}

func (s *StubReader) ReadAsset(ctx context.Context, path string) ([]byte, error) {
	s.Calls++
	s.Paths = append(s.Paths, path)
	return s.Data, s.Err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
